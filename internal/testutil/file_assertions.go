package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions provides chained assertions on files below a base directory.
type FileAssertions struct {
	t       testing.TB
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t testing.TB, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists validates that a file exists.
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(relativePath)); err != nil {
		fa.t.Errorf("Expected file to exist: %s (%v)", relativePath, err)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist.
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(relativePath)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", relativePath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content.
func (fa *FileAssertions) AssertFileContains(relativePath, expected string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", relativePath, err)
		return fa
	}
	if !strings.Contains(string(content), expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", relativePath, expected, content)
	}
	return fa
}

// AssertFileEquals validates exact file content.
func (fa *FileAssertions) AssertFileEquals(relativePath, expected string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", relativePath, err)
		return fa
	}
	if string(content) != expected {
		fa.t.Errorf("File %s content mismatch\nwant: %q\ngot:  %q", relativePath, expected, content)
	}
	return fa
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}
