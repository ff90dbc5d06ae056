package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad_RequiresAPIURL(t *testing.T) {
	_, err := load(lookupFrom(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PADDIO_API_URL")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := load(lookupFrom(map[string]string{
		"PADDIO_API_URL":        "https://api.paddio.test/",
		"LOGIN_RATE_PER_MINUTE": "zero",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.paddio.test", cfg.APIURL)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultDBName, cfg.DBName)
	assert.Equal(t, defaultAuditTopic, cfg.AuditTopic)
	assert.Equal(t, defaultLoginRate, cfg.LoginRatePerMinute)
	assert.Empty(t, cfg.Slack.Token)
	assert.Contains(t, cfg.Resources, "users")
}

func TestLoadResources_EmbeddedDefaults(t *testing.T) {
	resources, err := LoadResources("")
	require.NoError(t, err)

	for _, name := range []string{"admins", "users", "clubs", "courts", "matches", "reservations", "notifications"} {
		assert.Contains(t, resources, name)
	}
	admins := resources["admins"]
	assert.Equal(t, "/users/admins", admins.Path)
	assert.Equal(t, "admins", admins.Envelope)
	assert.Equal(t, "super_admins", admins.Fallback)
	assert.Equal(t, 1000, admins.Cap)
	assert.Equal(t, ',', admins.DelimiterRune())

	assert.Equal(t, ';', resources["reservations"].DelimiterRune())
	assert.Equal(t, "array", resources["users"].Envelope)
}

func TestLoadResources_APIPaths(t *testing.T) {
	resources, err := LoadResources("")
	require.NoError(t, err)

	paths := map[string]string{
		"admins":        "/users/admins",
		"users":         "/users/",
		"clubs":         "/clubs/",
		"courts":        "/courts/",
		"matches":       "/matches/",
		"notifications": "/notifications/broadcast-history",
	}
	for name, want := range paths {
		assert.Equal(t, want, resources[name].Path, name)
	}
	assert.Equal(t, "array", resources["notifications"].Envelope)
	assert.Equal(t, "clubs", resources["clubs"].Filename)
	assert.Equal(t, "usuarios", resources["users"].Filename)
	assert.Equal(t, "partidos", resources["matches"].Filename)
}

func TestLoadResources_FileOverridesOnlyWhatItNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.toml")
	content := `
[resources.reservations]
cap = 250

[resources.tournaments]
path = "/tournaments"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	resources, err := LoadResources(path)
	require.NoError(t, err)

	res := resources["reservations"]
	assert.Equal(t, 250, res.Cap)
	assert.Equal(t, "/pregame-turns", res.Path)
	assert.Equal(t, ";", res.Delimiter)

	extra := resources["tournaments"]
	assert.Equal(t, "/tournaments", extra.Path)
	assert.Equal(t, "array", extra.Envelope)
	assert.Equal(t, ",", extra.Delimiter)
	assert.Equal(t, "tournaments", extra.Filename)
}

func TestLoadResources_MissingFile(t *testing.T) {
	_, err := LoadResources(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
