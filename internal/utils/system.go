package utils

import (
	"os"
	"os/user"
)

// LocalAccount names the account running wrench as user@host. It is used
// where no Passbolt identity is known yet.
func LocalAccount() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return name + "@" + host
	}
	return name
}
