package engine

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"hash"
)

// Algorithm names used as record labels.
const (
	MD5  = "MD5"
	SHA1 = "SHA1"
)

// Algorithm describes one digest producer.
type Algorithm struct {
	// Name is the label written before the hex digest, e.g. "MD5".
	Name string

	// New returns a fresh accumulator.
	New func() hash.Hash
}

// DefaultAlgorithms are fed in this order for every chunk.
var DefaultAlgorithms = []Algorithm{
	{Name: MD5, New: md5.New},
	{Name: SHA1, New: sha1.New},
}

// Digest is a finalized digest.
type Digest struct {
	Algorithm string
	Sum       []byte
}

// Hex returns the lowercase hex encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.Sum)
}
