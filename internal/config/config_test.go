package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cf, err := LoadConfig(filepath.Join(t.TempDir(), "not_exist.env"))
	require.NoError(t, err)
	require.Equal(t, "sqlite", cf.DbDriver)
	require.Equal(t, "8080", cf.ServerPort)
	require.Equal(t, "cafe-erp.orders", cf.KafkaOrderTopic)
	require.Equal(t, 8*time.Second, cf.AdvisorTimeout)
	require.Empty(t, cf.KafkaBrokers)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9090\nDB_DRIVER=postgres\nKAFKA_BROKERS=k1:9092,k2:9092\nADVISOR_TIMEOUT=3s\nREDIS_DB=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cf, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cf.ServerPort)
	require.Equal(t, "postgres", cf.DbDriver)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cf.KafkaBrokers)
	require.Equal(t, 3*time.Second, cf.AdvisorTimeout)
	require.Equal(t, 2, cf.RedisDB)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\n"), 0o600))
	t.Setenv("SERVER_PORT", "7070")

	cf, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "7070", cf.ServerPort)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=mysql\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadSeedConfig(t *testing.T) {
	seed, err := LoadSeedConfig("")
	require.NoError(t, err)
	require.Len(t, seed.Products, 8)
	require.Equal(t, "Cutting Chai", seed.Products[0].Name)
	require.Len(t, seed.Staff, 2)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
products:
  - id: "p1"
    name: "Masala Chai"
    price: 30.5
    cost: 10
    category: "Beverages"
    stock: 12
    min_stock: 4
staff:
  - id: "s9"
    name: "Asha"
    role: "Barista"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	seed, err = LoadSeedConfig(path)
	require.NoError(t, err)
	require.Len(t, seed.Products, 1)
	require.Equal(t, 30.5, seed.Products[0].Price)
	require.Equal(t, 4, seed.Products[0].MinStock)
	require.Equal(t, "Asha", seed.Staff[0].Name)

	_, err = LoadSeedConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
