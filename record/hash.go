package record

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// hashKey is a fixed 32-byte HighwayHash key. The value need not be secret
// here: content hashes are used for interning and deterministic tie-breaks
// within a single process, never as a security boundary.
var hashKey = []byte("livegraph-content-hash-key-v1!!!")

// ContentHash hashes raw bytes into a uint64, used to intern identical
// primitive literals (spec §4.3). The cycle breaker's tie-break does not use
// it; that breaks ties by record ID. Grounded on the same HighwayHash usage
// pattern as the teacher pack's content-identity hashing.
func ContentHash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, fmt.Errorf("record: init content hash: %w", err)
	}
	if _, err := h.Write(data); err != nil {
		return 0, fmt.Errorf("record: hash content: %w", err)
	}
	return h.Sum64(), nil
}

// PrimitiveKey returns a hashable byte encoding of a primitive literal's
// kind and value, used by the tracer to intern primitives of the same kind
// and value into one shared record (spec §4.3).
func PrimitiveKey(kind string, repr string) ([]byte, error) {
	buf := make([]byte, 0, len(kind)+len(repr)+9)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(kind)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, kind...)
	buf = append(buf, 0)
	buf = append(buf, repr...)
	return buf, nil
}
