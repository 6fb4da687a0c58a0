// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"builder-network/internal/api"
	"builder-network/internal/common/config"
	"builder-network/internal/common/database"
	"builder-network/internal/common/logger"
	"builder-network/internal/common/ratelimit"
	"builder-network/internal/wizard"
	"builder-network/pkg/registry"

	createapplicationrecord "builder-network/internal/application/create-application-record"
	sendnotification "builder-network/internal/application/send-notification"
	validateapplicationdata "builder-network/internal/application/validate-application-data"
)

// The suite runs against real services only when E2E_DATABASE_URL points at a
// disposable Postgres database. E2E_REDIS_ADDR additionally enables the shared
// rate limiter.
func requireServices(t *testing.T) (*database.PostgresClient, *redis.Client) {
	t.Helper()

	dsn := os.Getenv("E2E_DATABASE_URL")
	if dsn == "" {
		t.Skip("E2E_DATABASE_URL not set; skipping end-to-end test")
	}

	ctx := context.Background()
	pg, err := database.NewPostgres(config.PostgresConfig{URL: dsn, MaxConnections: 5, MaxIdle: 2})
	require.NoError(t, err, "❌ PostgreSQL client creation failed")
	require.NoError(t, pg.Ping(ctx), "❌ PostgreSQL ping failed")
	t.Cleanup(func() { _ = pg.Close() })
	t.Log("✅ PostgreSQL connected")

	require.NoError(t, createapplicationrecord.Migrate(ctx, pg.DB))

	var rdb *redis.Client
	if addr := os.Getenv("E2E_REDIS_ADDR"); addr != "" {
		rc, err := database.NewRedis(config.RedisConfig{Enabled: true, Address: addr})
		require.NoError(t, err, "❌ Redis client creation failed")
		require.NoError(t, rc.Ping(ctx), "❌ Redis ping failed")
		t.Cleanup(func() { _ = rc.Close() })
		rdb = rc.Client
		t.Log("✅ Redis connected")
	}

	return pg, rdb
}

func newServer(t *testing.T, pg *database.PostgresClient, limiter ratelimit.Limiter) *httptest.Server {
	t.Helper()
	log := logger.NewTestLogger(t)

	validator, err := validateapplicationdata.NewHandler(validateapplicationdata.LoadConfig(), log)
	require.NoError(t, err)

	notifyCfg := sendnotification.LoadConfig()
	notifyCfg.EmailEnabled = false

	h := api.NewHandler(api.Options{
		Validator: validator,
		Store:     createapplicationrecord.NewHandler(createapplicationrecord.LoadConfig(), pg.DB, log),
		Notifier:  sendnotification.NewHandler(notifyCfg, nil, nil, registry.Default(), log),
		Limiter:   limiter,
		Ready:     pg,
		Logger:    log,
	})

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func TestWizardSubmissionIsPersisted(t *testing.T) {
	pg, _ := requireServices(t)
	srv := newServer(t, pg, nil)

	ctrl := wizard.NewController(wizard.NewHTTPSubmitter(srv.URL, 10*time.Second), nil, logger.NewTestLogger(t))
	business := "E2E Steel " + time.Now().UTC().Format("20060102150405.000000000")
	require.NoError(t, ctrl.UpdateField("legalBusinessName", business))
	require.NoError(t, ctrl.UpdateField("contactName", "Jane Doe"))
	require.NoError(t, ctrl.UpdateField("contactEmail", "jane@acme.com"))
	require.NoError(t, ctrl.UpdateProject(0, "squareFootage", "2400"))
	require.NoError(t, ctrl.UpdateReference(0, "name", "Bob"))
	require.NoError(t, ctrl.ToggleFlag(registry.SectionExpertise, "designBuild"))
	ctrl.GoTo(wizard.LastStep)

	notice, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wizard.NoticeSuccess, notice.Kind)
	assert.Equal(t, wizard.FirstStep, ctrl.Step())

	var (
		contactEmail string
		payload      []byte
	)
	err = pg.DB.QueryRowContext(context.Background(),
		`SELECT contact_email, payload FROM builder_applications WHERE legal_business_name = $1`, business,
	).Scan(&contactEmail, &payload)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.com", contactEmail)

	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &stored))
	assert.NotContains(t, stored, "references")
	assert.Equal(t, true, stored["expertise"].(map[string]interface{})["designBuild"])
	t.Log("✅ Submission stored")
}

func TestReadinessProbe(t *testing.T) {
	pg, _ := requireServices(t)
	srv := newServer(t, pg, nil)

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSharedRateLimit(t *testing.T) {
	pg, rdb := requireServices(t)
	if rdb == nil {
		t.Skip("E2E_REDIS_ADDR not set; skipping shared rate limit test")
	}
	// loopback clients share one key, so clear it first
	require.NoError(t, rdb.Del(context.Background(), "builder-network:submit:127.0.0.1").Err())

	srv := newServer(t, pg, ratelimit.NewRedisLimiter(rdb, 1, time.Minute))
	sub := wizard.NewHTTPSubmitter(srv.URL, 10*time.Second)

	app := wizard.NewController(nil, nil, nil).Payload()
	app.LegalBusinessName = "E2E Limited"
	app.ContactName = "Jane Doe"
	app.ContactEmail = "jane@acme.com"

	first, err := sub.Submit(context.Background(), app)
	require.NoError(t, err)
	assert.True(t, first.Success)

	_, err = sub.Submit(context.Background(), app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
