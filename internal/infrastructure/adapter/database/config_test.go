package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         5432,
		Username:     "postgres",
		Password:     "secret",
		Database:     "credit_ledger",
		SSLMode:      "disable",
		QueryTimeout: 10 * time.Second,
	}
}

func TestConfig_DSN(t *testing.T) {
	t.Run("should build plain DSN without lock timeout", func(t *testing.T) {
		cfg := validConfig()

		dsn := cfg.DSN()

		assert.Equal(t,
			"host=localhost port=5432 user=postgres password=secret dbname=credit_ledger sslmode=disable",
			dsn)
	})

	t.Run("should carry lock timeout as a startup option for every pooled connection", func(t *testing.T) {
		cfg := validConfig()
		cfg.LockTimeout = 5 * time.Second

		dsn := cfg.DSN()

		assert.Contains(t, dsn, "options='-c lock_timeout=5000ms'")
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	missingHost := validConfig()
	missingHost.Host = ""
	assert.Error(t, missingHost.Validate())

	missingTimeout := validConfig()
	missingTimeout.QueryTimeout = 0
	assert.Error(t, missingTimeout.Validate())
}

func TestParsePort(t *testing.T) {
	assert.Equal(t, 5432, ParsePort("5432"))
	assert.Equal(t, 5432, ParsePort("not-a-port"))
	assert.Equal(t, 5432, ParsePort(""))
	assert.Equal(t, 6543, ParsePort("6543"))
}
