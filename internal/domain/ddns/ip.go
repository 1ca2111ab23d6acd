package ddns

import (
	"regexp"
	"strconv"
	"strings"
)

// SentinelIP marks "no address has ever been confirmed". It compares unequal
// to every real public address, so the first reconciliation after a fresh
// install always triggers an update.
const SentinelIP = "0.0.0.0"

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)

// IsValidIPv4 reports whether s is a dotted-quad IPv4 address with every
// octet in [0, 255]. The sentinel address is considered valid.
func IsValidIPv4(s string) bool {
	if !ipv4Pattern.MatchString(s) {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
