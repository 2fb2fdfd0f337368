// Package checksum provides the content digests used for card files and
// memoization keys.
package checksum

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"slices"
	"time"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Times returns a digest of a set of instants at millisecond precision.
// Order does not matter; duplicates do.
func Times(ts []time.Time) string {
	ns := make([]int64, len(ts))
	for i, t := range ts {
		ns[i] = t.UnixMilli()
	}
	slices.Sort(ns)

	h := sha256.New()
	var buf [8]byte
	for _, n := range ns {
		binary.BigEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
