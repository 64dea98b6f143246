package config

// Config represents the application configuration
type Config struct {
	RpcUrl          string            `yaml:"rpcUrl"`
	NetworkID       string            `yaml:"networkId"`
	SignerAccountID string            `yaml:"signerAccountId"`
	PrivateKeyEnv   string            `yaml:"privateKeyEnv"` // Environment variable holding the ed25519 secret key
	Finality        string            `yaml:"finality"`
	Timeout         int               `yaml:"timeout"` // HTTP timeout in seconds
	Retry           RetryConfig       `yaml:"retry"`
	OutputPath      string            `yaml:"outputPath"`
	MetricsFile     string            `yaml:"metricsFile"`
	LogFilePath     string            `yaml:"logFilePath"`
	LogLevel        string            `yaml:"logLevel"`
	LogRotation     LogRotationConfig `yaml:"logRotation"`
}

// RetryConfig controls provider retries on node timeouts
type RetryConfig struct {
	MaxAttempts    int `yaml:"maxAttempts"`
	InitialDelayMs int `yaml:"initialDelayMs"`
}

// LogRotationConfig represents the configuration for log rotation
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"maxSizeMB"`
	MaxAgeDays int  `yaml:"maxAgeDays"`
	MaxBackups int  `yaml:"maxBackups"`
	Compress   bool `yaml:"compress"`
}

// BundleFile is the on-disk form of a list of transactions
type BundleFile struct {
	Transactions []TransactionConfig `yaml:"transactions"`
}

// TransactionConfig represents one transaction of a bundle file
type TransactionConfig struct {
	ReceiverID  string         `yaml:"receiverId"`
	NonceOffset uint64         `yaml:"nonceOffset"`
	Actions     []ActionConfig `yaml:"actions"`
}

// ActionConfig represents one action. Which fields apply depends on Type.
// Amounts are in NEAR ("1.5"), not yoctoNEAR.
type ActionConfig struct {
	Type          string   `yaml:"type"`
	Amount        string   `yaml:"amount"`      // transfer, stake
	MethodName    string   `yaml:"methodName"`  // functionCall
	Args          string   `yaml:"args"`        // functionCall, raw JSON
	Gas           uint64   `yaml:"gas"`         // functionCall
	Deposit       string   `yaml:"deposit"`     // functionCall
	CodePath      string   `yaml:"codePath"`    // deployContract, relative to the bundle file
	PublicKey     string   `yaml:"publicKey"`   // stake, addKey, deleteKey
	Permission    string   `yaml:"permission"`  // addKey: fullAccess or functionCall
	Allowance     string   `yaml:"allowance"`   // addKey functionCall permission
	ReceiverID    string   `yaml:"receiverId"`  // addKey functionCall permission
	MethodNames   []string `yaml:"methodNames"` // addKey functionCall permission
	BeneficiaryID string   `yaml:"beneficiaryId"`
}
