package core

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const DefaultHashLength = 16

// HashContent returns the hex xxhash64 digest of content, truncated to
// length characters. A non-positive length keeps the full digest.
func HashContent(content []byte, length int) string {
	sum := strconv.FormatUint(xxhash.Sum64(content), 16)
	for len(sum) < DefaultHashLength {
		sum = "0" + sum
	}
	if length > 0 && length < len(sum) {
		return sum[:length]
	}
	return sum
}
