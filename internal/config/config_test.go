package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
user = "marketplace"
dbname = "marketplace"
password = "secret"

[pricing]
promo_codes = ["SAVE10"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 12, cfg.Search.DefaultPageSize)
	assert.Equal(t, 0.10, cfg.Pricing.PromoDiscountRate)
	assert.Equal(t, []string{"SAVE10"}, cfg.Pricing.PromoCodes)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
}

func TestLoad_EnvPasswordOverridesFile(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	path := writeConfig(t, `
[database]
user = "marketplace"
dbname = "marketplace"
password = "from-file"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing database",
			content: `[server]` + "\n" + `http_port = 9000`,
		},
		{
			name: "discount rate too high",
			content: `
[database]
user = "u"
dbname = "d"
[pricing]
promo_discount_rate = 1.5
`,
		},
		{
			name: "notifications without url",
			content: `
[database]
user = "u"
dbname = "d"
[notifications]
enabled = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
