package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticHasShell(t *testing.T) {
	static, err := Static()
	require.NoError(t, err)

	shell, err := fs.ReadFile(static, "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(shell), `<div id="app">`)

	script, err := fs.ReadFile(static, "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(script), `api('GET', '/reports/summary')`)
}
