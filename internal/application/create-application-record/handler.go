// internal/application/create-application-record/handler.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"builder-network/internal/common/logger"
	"builder-network/internal/models"
)

const (
	TaskType = "create-application-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrMigrationFailed      = errors.New("MIGRATION_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Insert stores app as a new record. Every call creates a new row.
func (h *Handler) Insert(ctx context.Context, app *models.Application) (*models.Record, error) {
	output, err := h.execute(ctx, &Input{Application: app})
	if err != nil {
		return nil, err
	}
	return output.Record, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Application == nil {
		return nil, fmt.Errorf("%w: no application", ErrDatabaseInsertFailed)
	}

	if h.config != nil && h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	// References are collected by the form but never persisted.
	stored := input.Application.Clone()
	stored.References = nil

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal application: %v", ErrDatabaseInsertFailed, err)
	}

	record := &models.Record{
		ID:                h.newID(),
		LegalBusinessName: stored.LegalBusinessName,
		ContactName:       stored.ContactName,
		ContactEmail:      stored.ContactEmail,
		Payload:           payload,
		SubmittedAt:       h.now().UTC(),
	}

	_, err = h.db.ExecContext(ctx, insertApplicationSQL,
		record.ID,
		record.LegalBusinessName,
		record.ContactName,
		record.ContactEmail,
		payload,
		record.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId":     record.ID,
		"legalBusinessName": record.LegalBusinessName,
		"submittedAt":       record.SubmittedAt.Format(time.RFC3339),
	})

	return &Output{Record: record}, nil
}

// Migrate creates the builder_applications table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createTableSQL, createSubmittedAtIndexSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
		}
	}
	return nil
}
