package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "dynamodb", cfg.Store.Driver)
	assert.Equal(t, "Properties", cfg.Dynamo.TableName)
	assert.Equal(t, "http://localhost:8000", cfg.Dynamo.Endpoint)
	assert.Equal(t, 3, cfg.Dynamo.MaxRetries)
	assert.Equal(t, "SELLER_DEMO_001", cfg.Listing.DemoSellerID)
	assert.Equal(t, "Hyderabad", cfg.Listing.Market.City)
	assert.False(t, cfg.Workflow.StrictTransitions)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
store:
  driver: memory
listing:
  market:
    city: ""
workflow:
  strictTransitions: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "", cfg.Listing.Market.City)
	assert.True(t, cfg.Workflow.StrictTransitions)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PROPERTIES_TABLE", "Listings")
	t.Setenv("CORS_ORIGIN", "http://a.test, http://b.test")
	t.Setenv("STRICT_TRANSITIONS", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "Listings", cfg.Dynamo.TableName)
	assert.Empty(t, cfg.Dynamo.Endpoint, "production uses the SDK's default endpoint resolution")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CorsOrigins)
	assert.True(t, cfg.Workflow.StrictTransitions)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	require.Error(t, err)
}
