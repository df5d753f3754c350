package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies-naukri.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"name": "nauk_at", "value": "abc", "domain": ".naukri.com", "path": "/", "expires": 1893456000, "httpOnly": true, "secure": true, "sameSite": "Lax"},
  {"name": "test", "value": "1", "domain": "www.naukri.com", "sameSite": "no_restriction"},
  {"name": "", "value": "orphan", "domain": ".naukri.com"}
]`), 0o644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2, "cookies without a name are dropped")

	first := cookies[0]
	assert.Equal(t, "nauk_at", first.Name)
	assert.Equal(t, ".naukri.com", *first.Domain)
	assert.Equal(t, 1893456000.0, *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1]
	assert.Equal(t, "/", *second.Path)
	assert.Nil(t, second.Expires, "session cookie")
	assert.Nil(t, second.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeNone, second.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0o644))
	_, err = LoadCookies(path)
	assert.ErrorContains(t, err, "parse")
}
