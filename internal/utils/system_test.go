package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Empty", "", []string{}},
		{"Single", "infra", []string{"infra"}},
		{"TrimsValues", " #infra , mine,web ", []string{"#infra", "mine", "web"}},
		{"KeepsEmptyValues", "a,,b", []string{"a", "", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SplitCSV(tc.input)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("SplitCSV(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestWritePrivateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "key.asc")

	if err := WritePrivateFile(path, []byte("secret")); err != nil {
		t.Fatalf("WritePrivateFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %v", info.Mode().Perm())
	}
	if !FileExists(path) {
		t.Error("Expected FileExists to report the written file")
	}
	if FileExists(filepath.Dir(path)) {
		t.Error("Expected FileExists to be false for a directory")
	}
}

func TestLocalAccount(t *testing.T) {
	account := LocalAccount()
	if account == "" {
		t.Fatal("Expected non-empty account")
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		if !strings.HasSuffix(account, "@"+host) {
			t.Errorf("Expected %q to end with the hostname %q", account, host)
		}
	}
}

func TestPipedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.tsv")
	if err := os.WriteFile(path, []byte("a\tb\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := PipedInput(f)
	if err != nil {
		t.Fatalf("PipedInput failed: %v", err)
	}
	if string(data) != "a\tb\n" {
		t.Errorf("PipedInput() = %q", data)
	}
}
