package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(run_id|scenario|tx_index)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(runID, scenario string, txIndex int) string {
	data := fmt.Sprintf("%s|%s|%d", runID, scenario, txIndex)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
