// Package commitment implements the commit-reveal payload codec: a
// fixed-layout serialization of swap intent and its SHA-256 hash. The byte
// layout matches the on-chain commitment format, so the hash is reproducible
// byte-for-byte on both sides.
package commitment

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// IntentSize is the serialized length of a SwapIntent:
// amount_in (u64 LE) + min_out (u64 LE) + slippage_bps (u16 LE) + nonce (32).
const IntentSize = 8 + 8 + 2 + 32

// ErrBadLength is returned when decoding a buffer that is not IntentSize long.
var ErrBadLength = errors.New("swap intent must be exactly 50 bytes")

// SwapIntent is the hashed payload of a protected trade. The nonce is the
// sole replay-protection element: legitimate users may submit structurally
// identical trades, so it must come from cryptographic randomness.
type SwapIntent struct {
	AmountIn    uint64
	MinOut      uint64
	SlippageBps uint16
	Nonce       [32]byte
}

// NewIntent builds an intent with a fresh random nonce.
func NewIntent(amountIn, minOut uint64, slippageBps uint16) SwapIntent {
	intent := SwapIntent{
		AmountIn:    amountIn,
		MinOut:      minOut,
		SlippageBps: slippageBps,
	}
	// crypto/rand.Read never fails on supported platforms.
	if _, err := rand.Read(intent.Nonce[:]); err != nil {
		panic("commitment: nonce entropy unavailable: " + err.Error())
	}
	return intent
}

// Encode serializes the intent into the fixed 50-byte little-endian layout.
// Reordering or padding would change every hash.
func (s SwapIntent) Encode() [IntentSize]byte {
	var buf [IntentSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], s.AmountIn)
	binary.LittleEndian.PutUint64(buf[8:16], s.MinOut)
	binary.LittleEndian.PutUint16(buf[16:18], s.SlippageBps)
	copy(buf[18:], s.Nonce[:])
	return buf
}

// Decode parses a 50-byte buffer back into a SwapIntent.
func Decode(buf []byte) (SwapIntent, error) {
	if len(buf) != IntentSize {
		return SwapIntent{}, ErrBadLength
	}
	var s SwapIntent
	s.AmountIn = binary.LittleEndian.Uint64(buf[0:8])
	s.MinOut = binary.LittleEndian.Uint64(buf[8:16])
	s.SlippageBps = binary.LittleEndian.Uint16(buf[16:18])
	copy(s.Nonce[:], buf[18:])
	return s, nil
}

// Hash returns the SHA-256 commitment hash of the intent.
func Hash(intent SwapIntent) [32]byte {
	buf := intent.Encode()
	return sha256.Sum256(buf[:])
}

// Verify recomputes the intent's hash and compares it against want. The
// comparison is constant-time: no behavior depends on which byte differs.
func Verify(intent SwapIntent, want [32]byte) bool {
	got := Hash(intent)
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}

// HexHash renders a commitment hash for logs and reports.
func HexHash(hash [32]byte) string {
	return hex.EncodeToString(hash[:])
}
