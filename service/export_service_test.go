package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectChromePathPrefersConfigured(t *testing.T) {
	chrome := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(chrome, []byte{}, 0755))

	assert.Equal(t, chrome, detectChromePath(chrome))
	assert.Equal(t, chrome, NewExportService(chrome).chromePath)
}

func TestDetectChromePathIgnoresMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	assert.NotEqual(t, missing, detectChromePath(missing))
}
