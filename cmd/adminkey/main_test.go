package main

import (
	"bytes"
	"strings"
	"testing"

	"jd-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("From flag", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run("s3cret", strings.NewReader(""), &out))

		hash := strings.TrimSpace(strings.TrimPrefix(out.String(), "ADMIN_KEY_HASH="))
		assert.True(t, auth.NewAuthorizer("", hash, "").CheckKey("s3cret"))
	})

	t.Run("From stdin", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run("", strings.NewReader("  piped \n"), &out))

		hash := strings.TrimSpace(strings.TrimPrefix(out.String(), "ADMIN_KEY_HASH="))
		assert.True(t, auth.NewAuthorizer("", hash, "").CheckKey("piped"))
	})

	t.Run("Empty", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, run("", strings.NewReader("\n"), &out))
		assert.Empty(t, out.String())
	})
}
