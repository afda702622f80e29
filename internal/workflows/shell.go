package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ShellGet fetches an API path, such as /resources.json, and returns its
// body indented for display.
func ShellGet(ctx context.Context, sess *Session, path string) (string, error) {
	if sess.Raw == nil {
		return "", errors.New("raw requests are not supported by this session")
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("usage: get <path>")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body, err := sess.Raw.GetRaw(ctx, path)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body), nil
	}
	return out.String(), nil
}
