package images

import (
	"crypto/md5"
	"fmt"
)

// ComputeChecksum generates a deterministic checksum for a frame buffer to
// verify idempotency.
//
// Example:
//
//	checksum := ComputeChecksum(rgba)
//	fmt.Printf("Frame checksum: %s\n", checksum)
func ComputeChecksum(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%x", md5.Sum(data))
}
