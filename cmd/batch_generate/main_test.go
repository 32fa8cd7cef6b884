package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTopics(t *testing.T) {
	topics, err := readTopics("", []string{"Go", "Rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, topics)

	path := filepath.Join(t.TempDir(), "topics.txt")
	require.NoError(t, os.WriteFile(path, []byte("# backend\nGo channels\n\n  SQL joins  \n"), 0o644))
	topics, err = readTopics(path, []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go channels", "SQL joins"}, topics)

	_, err = readTopics(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}
