package ddns

import "strings"

// Account represents a single provider account whose domains follow the public IP.
// The provider resolves the set of affected domains from the credentials, so no
// hostname is stored or sent.
type Account struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Complete reports whether the account carries both credentials.
// Incomplete accounts are skipped at update time rather than failing the cycle.
func (a Account) Complete() bool {
	return strings.TrimSpace(a.Username) != "" && strings.TrimSpace(a.Password) != ""
}
