package passbolt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeKeyring "encrypts" by prefixing, which is enough to drive the handshake.
type fakeKeyring struct{}

func (fakeKeyring) Encrypt(plaintext, armoredKey string) (string, error) {
	return "enc[" + armoredKey + "]:" + plaintext, nil
}

func (fakeKeyring) Decrypt(ciphertext string) (string, error) {
	_, plaintext, _ := strings.Cut(ciphertext, ":")
	return plaintext, nil
}

func writeEnvelope(w http.ResponseWriter, status int, message string, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"header": map[string]any{"status": http.StatusText(status), "code": status, "message": message},
		"body":   body,
	})
}

func newTestServer(t *testing.T, setup func(r chi.Router)) (*Client, *httptest.Server) {
	t.Helper()

	r := chi.NewRouter()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := New(Config{ServerURL: srv.URL, RetryMax: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// Retries in tests should not wait.
	client.reads.RetryWaitMin = 0
	client.reads.RetryWaitMax = 0

	return client, srv
}
