package models

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le32(n uint32) []byte {
	return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
}

func TestTransactionSerialize(t *testing.T) {
	tx := &Transaction{
		SignerID:   "a",
		PublicKey:  PublicKey{Type: KeyTypeED25519},
		Nonce:      5,
		ReceiverID: "b",
		Actions:    []Action{Transfer{Deposit: big.NewInt(1)}},
	}

	var want []byte
	want = append(want, le32(1)...)
	want = append(want, 'a')
	want = append(want, 0)
	want = append(want, make([]byte, 32)...)
	want = append(want, 5, 0, 0, 0, 0, 0, 0, 0)
	want = append(want, le32(1)...)
	want = append(want, 'b')
	want = append(want, make([]byte, 32)...)
	want = append(want, le32(1)...)
	want = append(want, 3, 1)
	want = append(want, make([]byte, 15)...)

	got, err := tx.Serialize()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	hash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, solana.Hash(sha256.Sum256(want)), hash)
}

func TestSignedTransactionBase64(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	tx := &Transaction{
		SignerID:   "alice.near",
		PublicKey:  kp.PublicKey(),
		Nonce:      1,
		ReceiverID: "bob.near",
		Actions:    []Action{CreateAccount{}},
	}
	hash, err := tx.Hash()
	require.NoError(t, err)
	sig, err := kp.Sign(hash[:])
	require.NoError(t, err)

	signed := &SignedTransaction{Transaction: tx, Signature: sig}
	encoded, err := signed.Base64()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	unsigned, err := tx.Serialize()
	require.NoError(t, err)

	require.Len(t, raw, len(unsigned)+1+64)
	assert.Equal(t, unsigned, raw[:len(unsigned)])
	assert.Equal(t, byte(KeyTypeED25519), raw[len(unsigned)])
	assert.Equal(t, sig.Data[:], raw[len(unsigned)+1:])
	assert.True(t, sig.Data.Verify(kp.PublicKey().Data, hash[:]))
}

func TestActionEncoding(t *testing.T) {
	key := PublicKey{Type: KeyTypeED25519}

	tests := []struct {
		name   string
		action Action
		want   []byte
	}{
		{"create account", CreateAccount{}, []byte{0}},
		{"deploy", DeployContract{Code: []byte{0xaa}}, append(append([]byte{1}, le32(1)...), 0xaa)},
		{"delete account", DeleteAccount{BeneficiaryID: "z"}, append(append([]byte{7}, le32(1)...), 'z')},
		{"delete key", DeleteKey{PublicKey: key}, append([]byte{6, 0}, make([]byte, 32)...)},
		{
			"add full access key",
			AddKey{PublicKey: key, AccessKey: AccessKey{}},
			append(append(append([]byte{5, 0}, make([]byte, 32)...), make([]byte, 8)...), 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serialize(tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFunctionCallEncoding(t *testing.T) {
	got, err := serialize(FunctionCall{MethodName: "m", Args: []byte("{}"), Gas: 1, Deposit: nil})
	require.NoError(t, err)

	var want []byte
	want = append(want, 2)
	want = append(want, le32(1)...)
	want = append(want, 'm')
	want = append(want, le32(2)...)
	want = append(want, '{', '}')
	want = append(want, 1, 0, 0, 0, 0, 0, 0, 0)
	want = append(want, make([]byte, 16)...)
	assert.Equal(t, want, got)
}

func TestParseNearAmount(t *testing.T) {
	oneNear, _ := new(big.Int).SetString("1000000000000000000000000", 10)

	v, err := ParseNearAmount("1")
	require.NoError(t, err)
	assert.Equal(t, 0, oneNear.Cmp(v))

	v, err = ParseNearAmount("0.000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())

	v, err = ParseNearAmount("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	v, err = ParseNearAmount("0e-400000000")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	v, err = ParseNearAmount("1000e-27")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())

	maxNear := "340282366920938.463463374607431768211455"
	v, err = ParseNearAmount(maxNear)
	require.NoError(t, err)
	assert.Equal(t, 0, maxU128.Cmp(v))

	bads := []string{
		"-1", "abc", "0.0000000000000000000000001",
		"340282366920938.463463374607431768211456",
		"1e15", "1e400000000", "1e-400000000",
	}
	for _, bad := range bads {
		_, err := ParseNearAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}

	assert.Equal(t, "1.5", FormatNearAmount(new(big.Int).Div(new(big.Int).Mul(oneNear, big.NewInt(3)), big.NewInt(2))))
}

func TestWriteU128Overflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := serialize(Transfer{Deposit: tooBig})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseKeys(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	parsed, err := ParseKeyPair(kp.String())
	require.NoError(t, err)
	assert.True(t, parsed.PublicKey().Equals(kp.PublicKey()))

	pk, err := ParsePublicKey(kp.PublicKey().String())
	require.NoError(t, err)
	assert.True(t, pk.Equals(kp.PublicKey()))

	_, err = ParsePublicKey("ed25519:not-base58!")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestExecutionStatusJSON(t *testing.T) {
	var outcome FinalExecutionOutcome
	raw := `{
		"status": {"SuccessValue": "IjEi"},
		"transaction": {"signer_id": "alice.near", "receiver_id": "bob.near", "nonce": 7, "hash": "h"},
		"transaction_outcome": {"id": "h", "outcome": {"status": {"SuccessReceiptId": "r"}, "gas_burnt": 10}},
		"receipts_outcome": [{"id": "r", "outcome": {"status": "Unknown"}}]
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &outcome))

	assert.True(t, outcome.Status.IsSuccess())
	assert.Equal(t, "SuccessValue", outcome.Status.String())
	value, err := outcome.Status.DecodeSuccessValue()
	require.NoError(t, err)
	assert.Equal(t, `"1"`, string(value))

	assert.Equal(t, "r", outcome.TransactionOutcome.Outcome.Status.SuccessReceiptID)
	assert.Equal(t, "Unknown", outcome.ReceiptsOutcome[0].Outcome.Status.String())
	assert.False(t, outcome.ReceiptsOutcome[0].Outcome.Status.IsSuccess())

	var failed ExecutionStatus
	require.NoError(t, json.Unmarshal([]byte(`{"Failure": {"ActionError": {"index": 0}}}`), &failed))
	assert.True(t, failed.IsFailure())
	assert.Equal(t, "Failure", failed.String())

	out, err := json.Marshal(ExecutionStatus{Other: "Started"})
	require.NoError(t, err)
	assert.Equal(t, `"Started"`, string(out))
}
