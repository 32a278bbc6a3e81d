package xauth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestFileProvider_LoadAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	writeFile(t, path, "access_key: AK1\naccess_secret: SK1\n")

	p, err := NewFileProvider(path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer p.Close()

	c, err := p.SessionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "AK1", c.AccessKey)
	assert.True(t, c.NeverExpires())

	writeFile(t, path, "access_key: AK2\naccess_secret: SK2\nsecurity_token: TOK\n")
	assert.Eventually(t, func() bool {
		c, err := p.SessionCredentials()
		return err == nil && c.AccessKey == "AK2" && c.SecurityToken == "TOK"
	}, 3*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, p.Reloads(), int64(1))
}

func TestFileProvider_InvalidUpdateKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	writeFile(t, path, "access_key: AK1\naccess_secret: SK1\n")

	p, err := NewFileProvider(path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer p.Close()

	writeFile(t, path, "access_key: AK2\n")
	time.Sleep(200 * time.Millisecond)

	c, err := p.SessionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "AK1", c.AccessKey)
	assert.Equal(t, int64(0), p.Reloads())
}

func TestFileProvider_Section(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	writeFile(t, path, `{"credentials":{"access_key":"AK","access_secret":"SK","expires_at":"2099-01-01T00:00:00Z"}}`)

	p, err := NewFileProvider(path, WithSection("credentials"))
	require.NoError(t, err)
	defer p.Close()

	c, err := p.SessionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "AK", c.AccessKey)
	assert.Equal(t, 2099, c.ExpiresAt.Year())
}

func TestFileProvider_Expired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	writeFile(t, path, "access_key: AK\naccess_secret: SK\nexpires_at: \"2000-01-01T00:00:00Z\"\n")

	p, err := NewFileProvider(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.SessionCredentials()
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
}

func TestFileProvider_Errors(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	writeFile(t, path, "access_key: AK\n")
	_, err = NewFileProvider(path)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	writeFile(t, path, "access_key: AK\naccess_secret: SK\nexpires_at: soon\n")
	_, err = NewFileProvider(path)
	assert.ErrorIs(t, err, ErrInvalidExpiry)
}

func TestFileProvider_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	writeFile(t, path, "access_key: AK\naccess_secret: SK\n")
	p, err := NewFileProvider(path)
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}
