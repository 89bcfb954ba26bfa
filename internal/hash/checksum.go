// Package hash provides the checksum function used by the framed format.
package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 digest of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
