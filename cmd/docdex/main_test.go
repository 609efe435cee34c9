package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error for no command", func(t *testing.T) {
		t.Parallel()

		m := NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "docdex.db")

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), nil, &stdout, &stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help prints usage without error", func(t *testing.T) {
		t.Parallel()

		m := NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "docdex.db")

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "docdex")
	})

	t.Run("list works end to end against an empty database", func(t *testing.T) {
		t.Parallel()

		m := NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "docdex.db")

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"list"}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No libraries indexed")
	})

	t.Run("returns error for unknown command", func(t *testing.T) {
		t.Parallel()

		m := NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "docdex.db")

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{"bogus"}, &stdout, &stderr)
		require.Error(t, err)
	})
}
