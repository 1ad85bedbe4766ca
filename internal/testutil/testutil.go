// Package testutil provides shared helpers for tests across the
// module: parsing fixture documents and building temp-file trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/jp/internal/doc"
	"github.com/roach88/jp/internal/patch"
)

// MustParseJSON parses src as a JSON document, failing the test on error.
func MustParseJSON(t testing.TB, src string) doc.Value {
	t.Helper()
	v, err := doc.ParseJSON([]byte(src))
	require.NoError(t, err, "parsing fixture JSON %q", src)
	return v
}

// MustParsePatch parses src as an RFC 6902 patch, failing the test on error.
func MustParsePatch(t testing.TB, src string) patch.Patch {
	t.Helper()
	p, err := patch.Parse([]byte(src))
	require.NoError(t, err, "parsing fixture patch %q", src)
	return p
}

// MustParsePointer parses a JSON Pointer, failing the test on error.
func MustParsePointer(t testing.TB, src string) doc.Pointer {
	t.Helper()
	p, err := doc.ParsePointer(src)
	require.NoError(t, err, "parsing fixture pointer %q", src)
	return p
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile reads path as a string, failing the test on error.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// WriteScript writes an executable shell script under dir and returns
// its path. Used to stand in for the external editor in edit-loop
// tests.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}
