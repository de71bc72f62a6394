package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/varon-ai/sitecrawler/internal/usecase"
)

func TestExtractRequiresOneURL(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestExtractRejectsNonHTTPURL(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--budget", "2", "ftp://example.com/"})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	assert.ErrorIs(t, err, usecase.ErrInvalidStartURL)
	assert.Empty(t, out.String())
}
