package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/validators"
)

// StdinPath reads resources from standard input.
const StdinPath = "-"

const (
	tsvFields      = 5
	tsvHeaderLines = 1
)

// RecordError reports a record that parsed but did not validate.
type RecordError struct {
	Path string
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.Path, e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NormalizeTags prefixes every tag with # so imported tags are public.
func NormalizeTags(tags []string) []string {
	var normalized []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !models.IsPublicTag(tag) {
			tag = "#" + tag
		}
		normalized = append(normalized, tag)
	}
	return normalized
}

// ParseTSV reads a tab separated export. path is only used in errors.
func ParseTSV(r io.Reader, path string, tags []string) ([]models.Resource, error) {
	tags = NormalizeTags(tags)

	var resources []models.Resource
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		if lineno <= tsvHeaderLines {
			continue
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != tsvFields {
			return nil, &werrors.ImportParseError{Path: path, Line: lineno}
		}

		resource := models.Resource{
			URI:         fields[0],
			Username:    fields[1],
			Secret:      fields[2],
			Description: fields[3],
			Name:        fields[4],
			Tags:        tags,
		}
		if err := validators.ValidateNewResource(resource); err != nil {
			return nil, &RecordError{Path: path, Line: lineno, Err: err}
		}
		resources = append(resources, resource)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return resources, nil
}

// ExpandPaths resolves a path or glob pattern to the files it names.
// Directories are skipped.
func ExpandPaths(pattern string) ([]string, error) {
	if pattern == StdinPath {
		return []string{StdinPath}, nil
	}

	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(pattern); err != nil {
			return nil, fmt.Errorf("%w: %s", werrors.ErrNoFilesFound, pattern)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", werrors.ErrNoFilesFound, pattern)
	}
	return files, nil
}

// Load expands pattern and parses every file it names, picking the format
// from the file extension. stdin is read when pattern is StdinPath.
func Load(pattern string, stdin io.Reader, tags []string) ([]models.Resource, error) {
	paths, err := ExpandPaths(pattern)
	if err != nil {
		return nil, err
	}

	var resources []models.Resource
	for _, path := range paths {
		parsed, err := loadFile(path, stdin, tags)
		if err != nil {
			return nil, err
		}
		resources = append(resources, parsed...)
	}
	return resources, nil
}

func loadFile(path string, stdin io.Reader, tags []string) ([]models.Resource, error) {
	if path == StdinPath {
		return ParseTSV(stdin, "standard input", tags)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return ParseJSON(data, path, tags)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ParseTSV(f, path, tags)
}
