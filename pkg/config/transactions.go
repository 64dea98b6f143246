package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"near-transaction-manager/models"
)

// DefaultGas is attached to function calls that do not set gas (30 Tgas)
const DefaultGas uint64 = 30_000_000_000_000

// LoadBundleFromFile loads a list of transactions from a YAML file. Contract
// code paths are resolved relative to the file.
func LoadBundleFromFile(path string) ([]models.TransactionOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle file: %w", err)
	}
	return ParseBundle(data, filepath.Dir(path))
}

func ParseBundle(data []byte, baseDir string) ([]models.TransactionOptions, error) {
	var file BundleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bundle file: %w", err)
	}
	if len(file.Transactions) == 0 {
		return nil, errors.New("bundle file has no transactions")
	}

	var result *multierror.Error
	bundle := make([]models.TransactionOptions, 0, len(file.Transactions))

	for i, txCfg := range file.Transactions {
		if txCfg.ReceiverID == "" {
			result = multierror.Append(result, fmt.Errorf("transaction %d has no receiverId", i))
		}
		if len(txCfg.Actions) == 0 {
			result = multierror.Append(result, fmt.Errorf("transaction %d has no actions", i))
		}

		options := models.TransactionOptions{
			ReceiverID:  txCfg.ReceiverID,
			NonceOffset: txCfg.NonceOffset,
			Actions:     make([]models.Action, 0, len(txCfg.Actions)),
		}
		for j, actionCfg := range txCfg.Actions {
			action, err := actionCfg.ToAction(baseDir)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("transaction %d action %d: %w", i, j, err))
				continue
			}
			options.Actions = append(options.Actions, action)
		}
		bundle = append(bundle, options)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// ToAction converts the YAML form into a wire action
func (a ActionConfig) ToAction(baseDir string) (models.Action, error) {
	switch strings.ToLower(a.Type) {
	case "createaccount":
		return models.CreateAccount{}, nil

	case "deploycontract":
		if a.CodePath == "" {
			return nil, errors.New("deployContract needs codePath")
		}
		path := a.CodePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read contract code: %w", err)
		}
		return models.DeployContract{Code: code}, nil

	case "functioncall":
		if a.MethodName == "" {
			return nil, errors.New("functionCall needs methodName")
		}
		deposit, err := models.ParseNearAmount(a.Deposit)
		if err != nil {
			return nil, err
		}
		gas := a.Gas
		if gas == 0 {
			gas = DefaultGas
		}
		return models.FunctionCall{MethodName: a.MethodName, Args: []byte(a.Args), Gas: gas, Deposit: deposit}, nil

	case "transfer":
		if a.Amount == "" {
			return nil, errors.New("transfer needs amount")
		}
		amount, err := models.ParseNearAmount(a.Amount)
		if err != nil {
			return nil, err
		}
		return models.Transfer{Deposit: amount}, nil

	case "stake":
		amount, err := models.ParseNearAmount(a.Amount)
		if err != nil {
			return nil, err
		}
		key, err := models.ParsePublicKey(a.PublicKey)
		if err != nil {
			return nil, err
		}
		return models.Stake{Stake: amount, PublicKey: key}, nil

	case "addkey":
		key, err := models.ParsePublicKey(a.PublicKey)
		if err != nil {
			return nil, err
		}
		accessKey := models.AccessKey{}
		switch strings.ToLower(a.Permission) {
		case "", "fullaccess":
		case "functioncall":
			if a.ReceiverID == "" {
				return nil, errors.New("functionCall permission needs receiverId")
			}
			permission := &models.FunctionCallPermission{ReceiverID: a.ReceiverID, MethodNames: a.MethodNames}
			if a.Allowance != "" {
				if permission.Allowance, err = models.ParseNearAmount(a.Allowance); err != nil {
					return nil, err
				}
			}
			accessKey.FunctionCall = permission
		default:
			return nil, fmt.Errorf("unknown permission %q", a.Permission)
		}
		return models.AddKey{PublicKey: key, AccessKey: accessKey}, nil

	case "deletekey":
		key, err := models.ParsePublicKey(a.PublicKey)
		if err != nil {
			return nil, err
		}
		return models.DeleteKey{PublicKey: key}, nil

	case "deleteaccount":
		if a.BeneficiaryID == "" {
			return nil, errors.New("deleteAccount needs beneficiaryId")
		}
		return models.DeleteAccount{BeneficiaryID: a.BeneficiaryID}, nil

	default:
		return nil, fmt.Errorf("unknown action type %q", a.Type)
	}
}
