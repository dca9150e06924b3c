// Package identity provides actor keypairs and base58 addresses. The
// simulation never signs anything on-chain; addresses exist so records can
// attribute trades to distinct actors the same way a ledger would.
package identity

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Keypair is an ed25519 keypair. Only the public half is ever used.
type Keypair struct {
	seed   [32]byte
	public [32]byte
}

// NewKeypair derives a keypair from fresh random seed bytes using the
// standard ed25519 derivation (SHA-512 of the seed, clamped scalar,
// scalar-base multiplication).
func NewKeypair() (*Keypair, error) {
	var kp Keypair
	if _, err := rand.Read(kp.seed[:]); err != nil {
		return nil, fmt.Errorf("read seed entropy: %w", err)
	}

	h := sha512.Sum512(kp.seed[:])
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, fmt.Errorf("derive scalar: %w", err)
	}

	point := new(edwards25519.Point).ScalarBaseMult(s)
	copy(kp.public[:], point.Bytes())
	return &kp, nil
}

// Public returns the 32-byte public key.
func (k *Keypair) Public() [32]byte {
	return k.public
}

// Address returns the base58-encoded public key.
func (k *Keypair) Address() string {
	return base58.Encode(k.public[:])
}

// ValidAddress reports whether addr decodes to a 32-byte value that is a
// valid point on the edwards25519 curve.
func ValidAddress(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
