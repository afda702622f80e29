package gpg

import (
	// openpgp falls back to RIPEMD160 for keys whose self-signature lists no
	// preferred hash, and only finds it once registered.
	_ "golang.org/x/crypto/ripemd160"
)
