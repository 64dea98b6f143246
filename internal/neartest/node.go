// Package neartest runs an in-process NEAR JSON-RPC node for tests. It serves
// block, view_access_key and broadcast_tx_commit, enforces increasing nonces per
// access key and can be told to fail upcoming calls.
package neartest

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"near-transaction-manager/models"
)

// Broadcast is the decoded header of a submitted transaction
type Broadcast struct {
	SignerID   string
	PublicKey  solana.PublicKey
	Nonce      uint64
	ReceiverID string
	Hash       string
}

// Fault replaces the next response to a method
type Fault struct {
	HTTPStatus int
	Error      json.RawMessage
}

type Node struct {
	Server *httptest.Server

	mu          sync.Mutex
	blockHash   solana.Hash
	blockHeight uint64
	accessKeys  map[string]uint64
	broadcasts  []Broadcast
	calls       []string
	faults      map[string][]Fault
}

func NewNode() *Node {
	n := &Node{
		blockHash:   solana.Hash(sha256.Sum256([]byte("genesis"))),
		blockHeight: 100,
		accessKeys:  make(map[string]uint64),
		faults:      make(map[string][]Fault),
	}
	n.Server = httptest.NewServer(http.HandlerFunc(n.handle))
	return n
}

func (n *Node) URL() string { return n.Server.URL }

func (n *Node) Close() { n.Server.Close() }

func accessKeyID(accountID, publicKey string) string {
	return accountID + "|" + publicKey
}

// AddAccessKey registers a key for an account with its current nonce
func (n *Node) AddAccessKey(accountID string, publicKey models.PublicKey, nonce uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accessKeys[accessKeyID(accountID, publicKey.String())] = nonce
}

func (n *Node) BlockHash() solana.Hash {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.blockHash
}

func (n *Node) InjectFault(method string, f Fault) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.faults[method] = append(n.faults[method], f)
}

func (n *Node) Broadcasts() []Broadcast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Broadcast(nil), n.broadcasts...)
}

// Calls lists the JSON-RPC methods received, in order
func (n *Node) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (n *Node) handle(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, req.Method)

	if queued := n.faults[req.Method]; len(queued) > 0 {
		fault := queued[0]
		n.faults[req.Method] = queued[1:]
		if fault.HTTPStatus != 0 && fault.HTTPStatus != http.StatusOK {
			http.Error(w, "injected fault", fault.HTTPStatus)
			return
		}
		writeResponse(w, req.ID, nil, fault.Error)
		return
	}

	var (
		result interface{}
		rpcErr json.RawMessage
	)
	switch req.Method {
	case "block":
		result = map[string]interface{}{
			"author": "validator.near",
			"header": map[string]interface{}{
				"height": n.blockHeight,
				"hash":   n.blockHash.String(),
			},
		}
	case "query":
		result, rpcErr = n.viewAccessKey(req.Params)
	case "broadcast_tx_commit":
		result, rpcErr = n.broadcast(req.Params)
	default:
		rpcErr = handlerError("METHOD_NOT_FOUND", req.Method)
	}
	writeResponse(w, req.ID, result, rpcErr)
}

func (n *Node) viewAccessKey(raw json.RawMessage) (interface{}, json.RawMessage) {
	var params struct {
		RequestType string `json:"request_type"`
		AccountID   string `json:"account_id"`
		PublicKey   string `json:"public_key"`
	}
	if err := json.Unmarshal(raw, &params); err != nil || params.RequestType != "view_access_key" {
		return nil, handlerError("PARSE_ERROR", "unsupported query")
	}
	nonce, ok := n.accessKeys[accessKeyID(params.AccountID, params.PublicKey)]
	if !ok {
		return nil, handlerError("UNKNOWN_ACCESS_KEY", params.PublicKey)
	}
	return map[string]interface{}{
		"nonce":        nonce,
		"permission":   "FullAccess",
		"block_height": n.blockHeight,
		"block_hash":   n.blockHash.String(),
	}, nil
}

func (n *Node) broadcast(raw json.RawMessage) (interface{}, json.RawMessage) {
	var params []string
	if err := json.Unmarshal(raw, &params); err != nil || len(params) != 1 {
		return nil, handlerError("PARSE_ERROR", "expected one base64 transaction")
	}
	data, err := base64.StdEncoding.DecodeString(params[0])
	if err != nil || len(data) < 65 {
		return nil, handlerError("PARSE_ERROR", "bad transaction encoding")
	}

	b, err := decodeHeader(data)
	if err != nil {
		return nil, handlerError("PARSE_ERROR", err.Error())
	}
	// signature is the trailing key type byte plus 64 bytes
	b.Hash = solana.Hash(sha256.Sum256(data[:len(data)-65])).String()

	id := accessKeyID(b.SignerID, models.PublicKey{Data: b.PublicKey}.String())
	current, ok := n.accessKeys[id]
	if !ok {
		return nil, handlerError("INVALID_TRANSACTION", "access key not found")
	}
	if b.Nonce <= current {
		return nil, handlerError("INVALID_TRANSACTION", fmt.Sprintf("InvalidNonce: tx %d, ak %d", b.Nonce, current))
	}
	n.accessKeys[id] = b.Nonce
	n.broadcasts = append(n.broadcasts, b)
	n.blockHeight++

	return map[string]interface{}{
		"status": map[string]interface{}{"SuccessValue": ""},
		"transaction": map[string]interface{}{
			"signer_id":   b.SignerID,
			"public_key":  models.PublicKey{Data: b.PublicKey}.String(),
			"nonce":       b.Nonce,
			"receiver_id": b.ReceiverID,
			"hash":        b.Hash,
		},
		"transaction_outcome": map[string]interface{}{
			"id":         b.Hash,
			"block_hash": n.blockHash.String(),
			"outcome": map[string]interface{}{
				"executor_id": b.SignerID,
				"status":      map[string]interface{}{"SuccessReceiptId": b.Hash},
			},
		},
		"receipts_outcome": []interface{}{},
	}, nil
}

func decodeHeader(data []byte) (Broadcast, error) {
	dec := bin.NewBorshDecoder(data)
	var b Broadcast

	readString := func() (string, error) {
		size, err := dec.ReadUint32(binary.LittleEndian)
		if err != nil {
			return "", err
		}
		raw, err := dec.ReadNBytes(int(size))
		return string(raw), err
	}

	var err error
	if b.SignerID, err = readString(); err != nil {
		return b, err
	}
	if _, err = dec.ReadUint8(); err != nil {
		return b, err
	}
	key, err := dec.ReadNBytes(32)
	if err != nil {
		return b, err
	}
	copy(b.PublicKey[:], key)
	if b.Nonce, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return b, err
	}
	if b.ReceiverID, err = readString(); err != nil {
		return b, err
	}
	return b, nil
}

func handlerError(cause, message string) json.RawMessage {
	out, _ := json.Marshal(map[string]interface{}{
		"code":    -32000,
		"message": "Server error",
		"data":    message,
		"name":    "HANDLER_ERROR",
		"cause":   map[string]interface{}{"name": cause},
	})
	return out
}

func writeResponse(w http.ResponseWriter, id json.RawMessage, result interface{}, rpcErr json.RawMessage) {
	resp := map[string]interface{}{"jsonrpc": "2.0", "id": id}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
