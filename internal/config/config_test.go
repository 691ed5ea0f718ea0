package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/underwriter")
	t.Setenv("AUTH0_DOMAIN", "example.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://api.underwriter.test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Hour, cfg.PurgeInterval)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr)
	assert.True(t, cfg.MigrateOnBoot)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("PURGE_INTERVAL", "15m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, cfg.PurgeInterval)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoadPolicy_Default(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, "1.00", policy.MinimumDSCR.StringFixed(2))
	assert.Equal(t, "1.25", policy.TargetDSCR.StringFixed(2))
	assert.Equal(t, "80", policy.MaxLTVPercent.String())
	assert.Equal(t, int32(28), policy.Calculator.Precision)
}

func TestLoadPolicy_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
minimum_dscr: "1.10"
target_dscr: "1.30"
max_ltv_percent: "75"
calculator:
  precision: 34
`), 0o600))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, "1.1", policy.MinimumDSCR.String())
	assert.Equal(t, "1.3", policy.TargetDSCR.String())
	assert.Equal(t, "75", policy.MaxLTVPercent.String())
	assert.Equal(t, "25", policy.WarnAnnualRatePercent.String())
	assert.Equal(t, int32(34), policy.Calculator.Precision)
	assert.Equal(t, int32(2), policy.Calculator.MoneyPlaces)
}

func TestParsePolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "max_dti: \"43\"\n"},
		{"bad decimal", "minimum_dscr: \"one\"\n"},
		{"negative", "max_ltv_percent: \"-5\"\n"},
		{"target below minimum", "minimum_dscr: \"1.3\"\ntarget_dscr: \"1.2\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
