package storage

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	t.Parallel()

	valid := map[string]string{
		"resumes/1/abc.pdf":   "resumes/1/abc.pdf",
		"resumes//1/./a.pdf":  "resumes/1/a.pdf",
		"  resumes/2/b.docx ": "resumes/2/b.docx",
	}
	for input, expected := range valid {
		got, err := cleanKey(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got)
	}

	invalid := []string{"", "   ", "/etc/passwd", "../secret", "resumes/../../x", `resumes\1.pdf`, ".", "a\x00b"}
	for _, input := range invalid {
		_, err := cleanKey(input)
		require.Error(t, err, input)
		assert.True(t, eris.Is(err, ErrInvalidKey), "expected ErrInvalidKey for %q", input)
	}
}

func TestNewSelectsDriver(t *testing.T) {
	t.Parallel()

	store, err := New(context.Background(), Options{Driver: "LOCAL", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, store)

	store, err = New(context.Background(), Options{Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, store)

	_, err = New(context.Background(), Options{Driver: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")

	_, err = New(context.Background(), Options{Driver: DriverS3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3 bucket is required")
}
