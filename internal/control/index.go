package control

import (
	"strconv"
	"strings"
)

// ParseIndex parses a decimal index for menu scripts. It returns -1 when the
// text is not a number that fits in 32 bits.
func ParseIndex(s string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return -1
	}
	return int(n)
}
