package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// IdentityHasher turns a provider subject id into the opaque value stored in
// users.identity_hash. The hash is keyed so a leaked table cannot be matched
// against known provider ids without the server key.
type IdentityHasher struct {
	key []byte
}

func NewIdentityHasher(secret string) *IdentityHasher {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &IdentityHasher{key: key}
}

func (h *IdentityHasher) Hash(provider, subject string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// key length is bounded in NewIdentityHasher
		panic(err)
	}
	mac.Write([]byte(provider))
	mac.Write([]byte{0})
	mac.Write([]byte(subject))
	return hex.EncodeToString(mac.Sum(nil))
}
