// Package errors provides typed error values for the wrench application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Input errors: bad user input, recovered by reprompting (ErrValidation)
//   - Crypto errors: key and decryption failures (ErrDecryption, ErrPrivateKeyNotFound)
//   - Server errors: identity checks against the Passbolt server (ErrFingerprintMismatch)
//   - Import errors: malformed bulk import records (ErrImportParse)
//   - Sharing errors: precondition violations (ErrSecretNotDecrypted, ErrUnknownGroupMember)
//
// Failed HTTP requests are reported as *passbolt.HTTPRequestError, which
// carries the raw server response.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("decrypting resource %s: %w", id, errors.ErrDecryption)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, werrors.ErrFingerprintMismatch) {
//	    // Abort before anything is sent to the server
//	}
package errors
