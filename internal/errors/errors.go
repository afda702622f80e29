package errors

import (
	"errors"
	"fmt"
)

// Input errors indicate that a value entered by the user is not acceptable.
var (
	// ErrValidation indicates user input failed validation.
	ErrValidation = errors.New("invalid input")

	// ErrRecipientNotFound indicates a username or group name is unknown to the server.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAborted indicates the user cancelled an interactive prompt.
	ErrAborted = errors.New("aborted by user")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrDecryption indicates a secret could not be decrypted with the available keys.
	ErrDecryption = errors.New("secret could not be decrypted")

	// ErrPrivateKeyNotFound indicates no private key has been imported yet.
	ErrPrivateKeyNotFound = errors.New("no secret key available")

	// ErrPublicKeyNotFound indicates a user has no public key to encrypt to.
	ErrPublicKeyNotFound = errors.New("public key not found")

	// ErrInvalidKey indicates a key file is malformed or unsupported.
	ErrInvalidKey = errors.New("invalid or unsupported key")
)

// Server errors indicate the server could not be trusted or reached.
var (
	// ErrFingerprintMismatch indicates the server key doesn't match the configured fingerprint.
	ErrFingerprintMismatch = errors.New("server fingerprint mismatch")

	// ErrAuthentication indicates the GPGAuth handshake failed.
	ErrAuthentication = errors.New("authentication failed")
)

// Sharing errors indicate a sharing request cannot be computed.
var (
	// ErrSecretNotDecrypted indicates the cleartext secret is required but missing.
	ErrSecretNotDecrypted = errors.New("resource secret has not been decrypted")

	// ErrUnknownGroupMember indicates a group references a user absent from the users directory.
	ErrUnknownGroupMember = errors.New("group member not found")
)

// Configuration and import errors.
var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfig indicates the configuration is malformed or incomplete.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrImportParse indicates a record of an import file could not be parsed.
	ErrImportParse = errors.New("import record could not be parsed")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")
)

// ImportParseError reports the line of an import file that could not be parsed.
type ImportParseError struct {
	Path string
	Line int
}

func (e *ImportParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("could not parse line %d", e.Line)
	}
	return fmt.Sprintf("could not parse line %d of %s", e.Line, e.Path)
}

// Is makes errors.Is(err, ErrImportParse) match any *ImportParseError.
func (e *ImportParseError) Is(target error) bool {
	return target == ErrImportParse
}
