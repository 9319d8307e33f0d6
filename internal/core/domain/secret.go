package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// SecretSize is the byte length of an escrow secret. The on-chain contract
// binds deposits to keccak256 over exactly these 32 bytes.
const SecretSize = 32

// Secret is the 32-byte preimage of a commitment. It is drawn once from a
// CSPRNG, revealed on-chain at withdrawal time, and retained in the store for
// history afterwards.
type Secret [SecretSize]byte

// Commitment returns keccak256 over the raw secret bytes. This is the value
// published on-chain at deposit time and the key the store is indexed by.
func (s Secret) Commitment() common.Hash {
	return Keccak256(s[:])
}

// Hex returns the 0x-prefixed hex encoding of the secret.
func (s Secret) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// IsZero reports whether the secret is all zero bytes. A zero secret never
// comes out of generation; seeing one means an unmarshalling bug upstream.
func (s Secret) IsZero() bool {
	return s == Secret{}
}

// ParseSecretHex decodes a 0x-prefixed or bare hex string into a Secret.
func ParseSecretHex(h string) (Secret, error) {
	var s Secret
	raw := strings.TrimPrefix(h, "0x")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return s, fmt.Errorf("decoding secret hex: %w", err)
	}
	if len(b) != SecretSize {
		return s, fmt.Errorf("secret must be %d bytes, got %d", SecretSize, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// Keccak256 calculates the Keccak-256 hash of the given data.
func Keccak256(data ...[]byte) common.Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return common.BytesToHash(d.Sum(nil))
}

// VerifyCommitment reports whether commitment is the keccak256 hash of secret.
func VerifyCommitment(commitment common.Hash, secret Secret) bool {
	return secret.Commitment() == commitment
}
