package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/wrench/internal/configs"
)

// Operation names.
const (
	OpAdd       = "add"
	OpShare     = "share"
	OpImport    = "import"
	OpImportKey = "import-key"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry is one line of the audit log.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Passbolt username, or the local account for import-key.
	Operation string `json:"op"`

	ResourceID   string `json:"resource_id,omitempty"`   // For add/share.
	ResourceName string `json:"resource_name,omitempty"` // For add/share.
	UsersCount   int    `json:"users_count,omitempty"`   // For share.
	GroupsCount  int    `json:"groups_count,omitempty"`  // For share.
	Count        int    `json:"count,omitempty"`         // For import.
	Source       string `json:"source,omitempty"`        // For import/import-key.
	Fingerprint  string `json:"fingerprint,omitempty"`   // For import-key.
}

// Log records entry in the configured audit log. Write failures are ignored.
func Log(entry Entry) {
	if path := LogPath(); path != "" {
		_ = Append(path, entry)
	}
}

// Append writes entry to the log at logPath, setting its timestamp if
// missing.
func Append(logPath string, entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// LogWithUser returns an entry for op attributed to username.
func LogWithUser(op, username string) Entry {
	return Entry{Operation: op, User: username}
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	if configs.WrenchSettings == nil {
		return ""
	}
	return configs.WrenchSettings.AuditLogPath
}

// ReadEntries returns the entries of the configured audit log.
func ReadEntries() ([]Entry, error) {
	if path := LogPath(); path != "" {
		return ReadFile(path)
	}
	return nil, nil
}

// ReadFile reads the entries of the log at logPath. A missing log has no
// entries.
func ReadFile(logPath string) ([]Entry, error) {
	data, err := os.ReadFile(logPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries decodes one entry per line, skipping lines that do not hold
// an entry.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if json.Unmarshal(line, &entry) == nil {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}
