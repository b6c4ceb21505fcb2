package usecase_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

type testEntry struct {
	name string
	data []byte
}

func entry(name, data string) testEntry {
	return testEntry{name: name, data: []byte(data)}
}

// createTestDocument writes an Office-like ZIP container with entries in the given order
func createTestDocument(t *testing.T, dir, name string, entries ...testEntry) string {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for _, e := range entries {
		writer, err := zipWriter.Create(e.name)
		gt.NoError(t, err)

		_, err = writer.Write(e.data)
		gt.NoError(t, err)
	}

	gt.NoError(t, zipWriter.Close())

	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
