package host

import (
	"crypto/md5"
	"encoding/hex"
)

// Hasher computes a stable hex digest of content.
type Hasher interface {
	Digest(data []byte) string
}

// MD5 hashes with MD5, the digest trust-store inventories key certificates by.
type MD5 struct{}

// Digest implements Hasher.
func (MD5) Digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
