package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATABASE_URL", "DB_USER", "DB_PASSWORD", "REDIS_ADDRESS", "REDIS_PASSWORD",
		"AWS_REGION", "SES_FROM_EMAIL", "SNS_TOPIC_ARN", "STAFF_EMAIL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  postgres:
    host: db.internal
    database: builders
    user: app
notifications:
  email:
    staff_address: staff@example.com
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 30000, cfg.Submission.Timeout)
	assert.Equal(t, 5, cfg.Submission.RateLimit.Limit)
	assert.Equal(t, "us-east-1", cfg.Integrations.AWS.Region)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "staff@example.com", cfg.Integrations.AWS.SES.FromEmail, "sender falls back to staff address")
	assert.Equal(t,
		"host=db.internal port=5432 user=app password= dbname=builders sslmode=disable",
		cfg.Database.Postgres.GetDSN())
}

func TestLoadFromFile_ExpandsPlaceholdersAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/apps?sslmode=disable")
	t.Setenv("STAFF_EMAIL", "ops@example.com")
	path := writeConfig(t, `
database:
  postgres:
    url: ${DATABASE_URL}
notifications:
  email:
    staff_address: ""
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost/apps?sslmode=disable", cfg.Database.Postgres.GetDSN())
	assert.Equal(t, "ops@example.com", cfg.Notifications.Email.StaffAddress)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing postgres",
			body:    "logging:\n  level: debug\n",
			wantErr: "database.postgres.url or database.postgres.host is required",
		},
		{
			name: "redis enabled without address",
			body: `
database:
  postgres:
    url: postgres://localhost/x
  redis:
    enabled: true
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "ses enabled without staff address",
			body: `
database:
  postgres:
    url: postgres://localhost/x
integrations:
  aws:
    ses:
      enabled: true
`,
			wantErr: "notifications.email.staff_address is required",
		},
		{
			name: "sns enabled without topic",
			body: `
database:
  postgres:
    url: postgres://localhost/x
integrations:
  aws:
    sns:
      enabled: true
`,
			wantErr: "integrations.aws.sns.topic_arn is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}
