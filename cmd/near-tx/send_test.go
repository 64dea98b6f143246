package main

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"near-transaction-manager/models"
)

func setSendFlags(t *testing.T, receiver, amount, file string) {
	t.Helper()
	sendReceiver, sendAmount, sendFile = receiver, amount, file
	t.Cleanup(func() { sendReceiver, sendAmount, sendFile = "", "", "" })
}

func TestSendOptionsTransfer(t *testing.T) {
	setSendFlags(t, "bob.near", "0.5", "")

	options, err := sendOptions()
	require.NoError(t, err)
	assert.Equal(t, "bob.near", options.ReceiverID)
	require.Len(t, options.Actions, 1)

	transfer, ok := options.Actions[0].(models.Transfer)
	require.True(t, ok)
	want, _ := new(big.Int).SetString("500000000000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(transfer.Deposit))
}

func TestSendOptionsReceiverNeedsAmount(t *testing.T) {
	setSendFlags(t, "bob.near", "", "")

	_, err := sendOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--amount")
}

func TestSendOptionsNeedsReceiverOrFile(t *testing.T) {
	setSendFlags(t, "", "1", "")

	_, err := sendOptions()
	assert.Error(t, err)
}

func TestSendOptionsFileWithOneTransaction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "send.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transactions:
  - receiverId: bob.near
    actions:
      - type: transfer
        amount: "2"
  - receiverId: carol.near
    actions:
      - type: transfer
        amount: "1"
`), 0o644))
	setSendFlags(t, "", "", path)

	_, err := sendOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send takes exactly one")
}
