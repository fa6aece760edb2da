package utils

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// ContentHash is the hex blake3 digest used to tag file contents.
func ContentHash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func ReaderContentHash(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ETag formats a content hash as a strong http entity tag.
func ETag(hash string) string {
	return `"` + hash + `"`
}
