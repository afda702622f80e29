package passbolt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
)

const (
	gpgAuthVersion = "gpgauthv1.3.0"

	headerUserAuthToken  = "X-GPGAuth-User-Auth-Token"
	headerVerifyResponse = "X-GPGAuth-Verify-Response"
	headerAuthenticated  = "X-GPGAuth-Authenticated"
	headerProgress       = "X-GPGAuth-Progress"

	verifyPath = "/auth/verify.json"
	loginPath  = "/auth/login.json"
)

// Keyring is the OpenPGP capability needed by the GPGAuth handshake.
type Keyring interface {
	// Decrypt returns the raw plaintext of an armored message.
	Decrypt(ciphertext string) (string, error)

	// Encrypt encrypts plaintext to the given armored public key.
	Encrypt(plaintext, armoredKey string) (string, error)
}

// Credentials identifies the user and the server they expect to talk to.
type Credentials struct {
	UserFingerprint   string
	ServerFingerprint string
}

// NewToken returns a fresh GPGAuth nonce.
func NewToken() string {
	id := uuid.NewString()
	return fmt.Sprintf("%s|%d|%s|%s", gpgAuthVersion, len(id), id, gpgAuthVersion)
}

// ValidateToken checks the gpgauthv1.3.0|36|<uuid>|gpgauthv1.3.0 format.
func ValidateToken(token string) error {
	parts := strings.Split(token, "|")
	if len(parts) != 4 {
		return fmt.Errorf("%w: malformed token", werrors.ErrAuthentication)
	}
	if parts[0] != gpgAuthVersion || parts[3] != gpgAuthVersion {
		return fmt.Errorf("%w: unsupported token version %q", werrors.ErrAuthentication, parts[0])
	}
	if parts[1] != "36" || len(parts[2]) != 36 {
		return fmt.Errorf("%w: token nonce has wrong length", werrors.ErrAuthentication)
	}
	if _, err := uuid.Parse(parts[2]); err != nil {
		return fmt.Errorf("%w: token nonce is not a UUID", werrors.ErrAuthentication)
	}
	return nil
}

// NormalizeFingerprint uppercases a fingerprint and strips its spaces.
func NormalizeFingerprint(fingerprint string) string {
	return strings.ToUpper(strings.ReplaceAll(fingerprint, " ", ""))
}

// ServerKey fetches the server's public key.
func (c *Client) ServerKey(ctx context.Context) (ServerKey, error) {
	var key ServerKey
	if err := c.Get(ctx, verifyPath, nil, &key); err != nil {
		return ServerKey{}, fmt.Errorf("failed to fetch server key: %w", err)
	}
	return key, nil
}

// VerifyServerFingerprint fetches the server key and compares its
// fingerprint to the expected one.
func (c *Client) VerifyServerFingerprint(ctx context.Context, expected string) (ServerKey, error) {
	key, err := c.ServerKey(ctx)
	if err != nil {
		return ServerKey{}, err
	}
	if NormalizeFingerprint(key.Fingerprint) != NormalizeFingerprint(expected) {
		return ServerKey{}, fmt.Errorf("%w: server presented %s, expected %s",
			werrors.ErrFingerprintMismatch, key.Fingerprint, expected)
	}
	return key, nil
}

// Login runs the GPGAuth handshake:
//
//  1. the server key fingerprint is checked against creds.ServerFingerprint;
//  2. the server proves it owns that key by decrypting a nonce;
//  3. the server sends a nonce encrypted for the user, the user decrypts it
//     and sends it back, and the server answers with a session cookie.
//
// A fingerprint mismatch aborts before any credential is sent.
func (c *Client) Login(ctx context.Context, keyring Keyring, creds Credentials) error {
	key, err := c.VerifyServerFingerprint(ctx, creds.ServerFingerprint)
	if err != nil {
		return err
	}

	if err := c.verifyServerIdentity(ctx, keyring, key, creds.UserFingerprint); err != nil {
		return err
	}

	resp, err := c.postForm(ctx, loginPath, url.Values{
		"data[gpg_auth][keyid]": {creds.UserFingerprint},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", werrors.ErrAuthentication, err)
	}

	encrypted := decodeTokenHeader(resp.Header.Get(headerUserAuthToken))
	if encrypted == "" {
		return fmt.Errorf("%w: server did not send a user token (progress %q)",
			werrors.ErrAuthentication, resp.Header.Get(headerProgress))
	}

	token, err := keyring.Decrypt(encrypted)
	if err != nil {
		return fmt.Errorf("%w: could not decrypt user token: %w", werrors.ErrAuthentication, err)
	}
	if err := ValidateToken(token); err != nil {
		return err
	}

	resp, err = c.postForm(ctx, loginPath, url.Values{
		"data[gpg_auth][keyid]":             {creds.UserFingerprint},
		"data[gpg_auth][user_token_result]": {token},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", werrors.ErrAuthentication, err)
	}
	if resp.Header.Get(headerAuthenticated) != "true" {
		return fmt.Errorf("%w: server refused the user token", werrors.ErrAuthentication)
	}

	c.config.Logger.Debugf("authenticated as %s", creds.UserFingerprint)
	return nil
}

func (c *Client) verifyServerIdentity(ctx context.Context, keyring Keyring, key ServerKey, userFingerprint string) error {
	nonce := NewToken()
	encrypted, err := keyring.Encrypt(nonce, key.KeyData)
	if err != nil {
		return fmt.Errorf("could not encrypt server verification token: %w", err)
	}

	resp, err := c.postForm(ctx, verifyPath, url.Values{
		"data[gpg_auth][keyid]":               {userFingerprint},
		"data[gpg_auth][server_verify_token]": {encrypted},
	})
	if err != nil {
		return fmt.Errorf("%w: server verification failed: %w", werrors.ErrAuthentication, err)
	}
	if resp.Header.Get(headerVerifyResponse) != nonce {
		return fmt.Errorf("%w: server could not decrypt the verification token", werrors.ErrFingerprintMismatch)
	}
	return nil
}

// postForm sends a form-encoded POST and returns the response with its body
// already drained. GPGAuth answers through headers only.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// decodeTokenHeader undoes the URL encoding the server applies to the
// armored token. Passbolt escapes "+" as "\+".
func decodeTokenHeader(value string) string {
	value = strings.ReplaceAll(value, `\+`, " ")
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
