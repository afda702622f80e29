// Package gpg wraps the OpenPGP operations wrench relies on: reading the
// user's private key, encrypting secrets to other users' public keys and
// decrypting secrets and GPGAuth tokens.
//
// The private key lives as an armored file in wrench's data directory,
// copied there by ImportKey. A passphrase protected key is unlocked on first
// use through the PassphraseFunc given to LoadKeyring.
package gpg
