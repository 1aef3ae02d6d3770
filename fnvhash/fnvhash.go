// Package fnvhash implements the 32-bit FNV-1a hashes used to fingerprint tile names and cells.
package fnvhash

import "hash/fnv"

const (
	offset32 = 0x811C9DC5
	prime32  = 0x01000193
)

// String hashes the bytes of s.
func String(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Strings hashes every string separately, in order.
func Strings(values []string) []uint32 {
	hashes := make([]uint32, len(values))
	for i, s := range values {
		hashes[i] = String(s)
	}
	return hashes
}

// Int32s folds whole 32-bit values into the hash, one xor-multiply round per value
// (not per byte), which differs from FNV-1a over the little-endian encoding.
func Int32s(values []int32) uint32 {
	hash := uint32(offset32)
	for _, v := range values {
		hash ^= uint32(v)
		hash *= prime32
	}
	return hash
}
