package models

import (
	"encoding/binary"
	"math/big"

	bin "github.com/gagliardetto/binary"
)

// ActionKind is the borsh enum discriminant of a NEAR action
type ActionKind uint8

const (
	ActionCreateAccount ActionKind = iota
	ActionDeployContract
	ActionFunctionCall
	ActionTransfer
	ActionStake
	ActionAddKey
	ActionDeleteKey
	ActionDeleteAccount
)

var actionKindNames = map[ActionKind]string{
	ActionCreateAccount:  "CreateAccount",
	ActionDeployContract: "DeployContract",
	ActionFunctionCall:   "FunctionCall",
	ActionTransfer:       "Transfer",
	ActionStake:          "Stake",
	ActionAddKey:         "AddKey",
	ActionDeleteKey:      "DeleteKey",
	ActionDeleteAccount:  "DeleteAccount",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Action is one step of a transaction. Each implementation writes its own
// enum discriminant followed by its payload.
type Action interface {
	Kind() ActionKind
	MarshalWithEncoder(encoder *bin.Encoder) error
}

type CreateAccount struct{}

func (CreateAccount) Kind() ActionKind { return ActionCreateAccount }

func (a CreateAccount) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(a.Kind()))
}

type DeployContract struct {
	Code []byte
}

func (DeployContract) Kind() ActionKind { return ActionDeployContract }

func (a DeployContract) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	return writeByteVec(encoder, a.Code)
}

type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    *big.Int
}

func (FunctionCall) Kind() ActionKind { return ActionFunctionCall }

func (a FunctionCall) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	if err := writeString(encoder, a.MethodName); err != nil {
		return err
	}
	if err := writeByteVec(encoder, a.Args); err != nil {
		return err
	}
	if err := encoder.WriteUint64(a.Gas, binary.LittleEndian); err != nil {
		return err
	}
	return writeU128(encoder, a.Deposit)
}

type Transfer struct {
	Deposit *big.Int
}

func (Transfer) Kind() ActionKind { return ActionTransfer }

func (a Transfer) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	return writeU128(encoder, a.Deposit)
}

type Stake struct {
	Stake     *big.Int
	PublicKey PublicKey
}

func (Stake) Kind() ActionKind { return ActionStake }

func (a Stake) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	if err := writeU128(encoder, a.Stake); err != nil {
		return err
	}
	return a.PublicKey.MarshalWithEncoder(encoder)
}

// AccessKey is the permission attached by an AddKey action. A nil
// FunctionCall permission means full access.
type AccessKey struct {
	Nonce        uint64
	FunctionCall *FunctionCallPermission
}

// FunctionCallPermission restricts a key to calls on one contract.
// A nil Allowance means unlimited.
type FunctionCallPermission struct {
	Allowance   *big.Int
	ReceiverID  string
	MethodNames []string
}

func (k AccessKey) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint64(k.Nonce, binary.LittleEndian); err != nil {
		return err
	}
	if k.FunctionCall == nil {
		return encoder.WriteUint8(1)
	}
	if err := encoder.WriteUint8(0); err != nil {
		return err
	}
	p := k.FunctionCall
	if p.Allowance == nil {
		if err := encoder.WriteUint8(0); err != nil {
			return err
		}
	} else {
		if err := encoder.WriteUint8(1); err != nil {
			return err
		}
		if err := writeU128(encoder, p.Allowance); err != nil {
			return err
		}
	}
	if err := writeString(encoder, p.ReceiverID); err != nil {
		return err
	}
	if err := encoder.WriteUint32(uint32(len(p.MethodNames)), binary.LittleEndian); err != nil {
		return err
	}
	for _, name := range p.MethodNames {
		if err := writeString(encoder, name); err != nil {
			return err
		}
	}
	return nil
}

type AddKey struct {
	PublicKey PublicKey
	AccessKey AccessKey
}

func (AddKey) Kind() ActionKind { return ActionAddKey }

func (a AddKey) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	if err := a.PublicKey.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	return a.AccessKey.MarshalWithEncoder(encoder)
}

type DeleteKey struct {
	PublicKey PublicKey
}

func (DeleteKey) Kind() ActionKind { return ActionDeleteKey }

func (a DeleteKey) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	return a.PublicKey.MarshalWithEncoder(encoder)
}

type DeleteAccount struct {
	BeneficiaryID string
}

func (DeleteAccount) Kind() ActionKind { return ActionDeleteAccount }

func (a DeleteAccount) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	return writeString(encoder, a.BeneficiaryID)
}
