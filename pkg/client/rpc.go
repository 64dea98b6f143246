package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"near-transaction-manager/models"
	"near-transaction-manager/pkg/logger"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 500 * time.Millisecond
)

// RPCProvider talks to a NEAR node over JSON-RPC. Besides submitting
// transactions it answers the view queries the transaction creator needs.
type RPCProvider struct {
	url          string
	client       *http.Client
	maxAttempts  uint64
	initialDelay time.Duration
	logger       *logger.Logger
	requestID    atomic.Uint64
}

var _ Provider = (*RPCProvider)(nil)

type Option func(*RPCProvider)

func WithHTTPClient(client *http.Client) Option {
	return func(p *RPCProvider) {
		p.client = client
	}
}

// WithRetry sets how often a request is attempted when the node times out or
// answers 408/503. Attempts below one are treated as one.
func WithRetry(maxAttempts uint64, initialDelay time.Duration) Option {
	return func(p *RPCProvider) {
		if maxAttempts < 1 {
			maxAttempts = 1
		}
		p.maxAttempts = maxAttempts
		if initialDelay > 0 {
			p.initialDelay = initialDelay
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(p *RPCProvider) {
		p.logger = l
	}
}

func NewRPCProvider(url string, opts ...Option) *RPCProvider {
	p := &RPCProvider{
		url:          strings.TrimRight(url, "/"),
		client:       &http.Client{},
		maxAttempts:  defaultMaxAttempts,
		initialDelay: defaultInitialDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.GetLogger("rpc", p.url)
	}
	return p
}

func (p *RPCProvider) URL() string {
	return p.url
}

// SendTransaction broadcasts with broadcast_tx_commit and returns the outcome as the node reports it
func (p *RPCProvider) SendTransaction(ctx context.Context, signedTransaction *models.SignedTransaction) (*models.FinalExecutionOutcome, error) {
	txBase64, err := signedTransaction.Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	var outcome models.FinalExecutionOutcome
	if err := p.call(ctx, "broadcast_tx_commit", []interface{}{txBase64}, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ViewAccessKey returns the access key (and its current nonce) of an account
func (p *RPCProvider) ViewAccessKey(
	ctx context.Context, accountID string, publicKey models.PublicKey, finality models.Finality,
) (*models.AccessKeyView, error) {
	params := map[string]interface{}{
		"request_type": "view_access_key",
		"finality":     finality,
		"account_id":   accountID,
		"public_key":   publicKey.String(),
	}

	// Older nodes report query failures inside the result
	var result struct {
		models.AccessKeyView
		Error string `json:"error"`
	}
	if err := p.call(ctx, "query", params, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		rpcErr := &RPCError{Name: "HANDLER_ERROR", Message: result.Error}
		if strings.Contains(result.Error, "does not exist") {
			rpcErr.Cause = &ErrorCause{Name: "UNKNOWN_ACCESS_KEY"}
		}
		return nil, rpcErr
	}
	return &result.AccessKeyView, nil
}

// Block returns the latest block at the given finality
func (p *RPCProvider) Block(ctx context.Context, finality models.Finality) (*models.BlockView, error) {
	var block models.BlockView
	if err := p.call(ctx, "block", map[string]interface{}{"finality": finality}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

func (p *RPCProvider) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	backoff := retry.WithMaxRetries(p.maxAttempts-1, retry.NewExponential(p.initialDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := p.do(ctx, method, params, out)
		if err != nil && isRetryable(err) {
			p.logger.Warn("%s attempt %d/%d failed: %v", method, attempt, p.maxAttempts, err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (p *RPCProvider) do(ctx context.Context, method string, params interface{}, out interface{}) error {
	type requestParams struct {
		Jsonrpc string      `json:"jsonrpc"`
		Id      string      `json:"id"`
		Method  string      `json:"method"`
		Params  interface{} `json:"params"`
	}

	type responseBody struct {
		Jsonrpc string          `json:"jsonrpc"`
		Id      json.RawMessage `json:"id"`
		Result  json.RawMessage `json:"result,omitempty"`
		Error   *RPCError       `json:"error,omitempty"`
	}

	req := requestParams{
		Jsonrpc: "2.0",
		Id:      strconv.FormatUint(p.requestID.Add(1), 10),
		Method:  method,
		Params:  params,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	p.logger.Debug("Calling %s (id %s)", method, req.Id)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}

	var response responseBody
	if err := json.Unmarshal(respBody, &response); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if response.Error != nil {
		return response.Error
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(response.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
