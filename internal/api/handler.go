// Package api serves the builder application submission endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	createapplicationrecord "builder-network/internal/application/create-application-record"
	sendnotification "builder-network/internal/application/send-notification"
	validateapplicationdata "builder-network/internal/application/validate-application-data"
	apperrors "builder-network/internal/common/errors"
	"builder-network/internal/common/logger"
	"builder-network/internal/common/metrics"
	"builder-network/internal/common/observability"
	"builder-network/internal/common/ratelimit"
	"builder-network/internal/models"
)

const (
	SuccessMessage        = "Application submitted successfully"
	InvalidPayloadMessage = "Invalid application data"

	defaultMaxBodyBytes = 1 << 20
)

type Validator interface {
	Execute(ctx context.Context, input *validateapplicationdata.Input) (*validateapplicationdata.Output, error)
}

type RecordStore interface {
	Insert(ctx context.Context, app *models.Application) (*models.Record, error)
}

type Notifier interface {
	Execute(ctx context.Context, input *sendnotification.Input) (*sendnotification.Output, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires the handler's collaborators. Limiter, Ready and Observability may be nil.
type Options struct {
	Validator         Validator
	Store             RecordStore
	Notifier          Notifier
	Limiter           ratelimit.Limiter
	Ready             Pinger
	Observability     *observability.Observability
	Logger            logger.Logger
	FailOnNotifyError bool
	MaxBodyBytes      int64
	TrustProxyHeaders bool
}

type Handler struct {
	validator     Validator
	store         RecordStore
	notifier      Notifier
	limiter       ratelimit.Limiter
	ready         Pinger
	observability *observability.Observability
	logger        logger.Logger
	errors        *apperrors.ErrorHandler
	failOnNotify  bool
	maxBodyBytes  int64
	trustProxy    bool
}

// SubmitResponse is the success body of the submit contract.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "api"})

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Handler{
		validator:     opts.Validator,
		store:         opts.Store,
		notifier:      opts.Notifier,
		limiter:       limiter,
		ready:         opts.Ready,
		observability: opts.Observability,
		logger:        log,
		errors:        apperrors.NewErrorHandler(log),
		failOnNotify:  opts.FailOnNotifyError,
		maxBodyBytes:  maxBody,
		trustProxy:    opts.TrustProxyHeaders,
	}
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	reqID := requestIDFromContext(ctx)

	fail := func(outcome string, err error) {
		observe(outcome, start)
		h.errors.HandleHTTPError(w, r, reqID, err)
	}

	key := clientKey(r)
	allowed, err := h.limiter.Allow(ctx, key)
	if err != nil {
		// Limiter outages must not block submissions.
		h.logger.Warn("rate limiter unavailable", map[string]interface{}{
			"requestId": reqID,
			"error":     err,
		})
		allowed = true
	}
	if !allowed {
		fail(metrics.OutcomeRateLimited, apperrors.NewRateLimitedError(key))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		fail(metrics.OutcomeInvalid, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	validated, err := h.validator.Execute(ctx, &validateapplicationdata.Input{Body: body})
	if err != nil {
		fail(metrics.OutcomeInvalid, validationError(err))
		return
	}
	app := validated.Application

	record, err := h.store.Insert(ctx, app)
	if err != nil {
		fail(metrics.OutcomeStorageFailed, apperrors.NewDatabaseInsertFailedError(err))
		return
	}

	notified, err := h.notifier.Execute(ctx, &sendnotification.Input{Application: app, Record: record})
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues("email").Inc()
		if h.failOnNotify {
			fail(metrics.OutcomeNotifyFailed, apperrors.NewNotificationSendFailedError(record.ID, err))
			return
		}
		h.logger.Error("staff notification failed; submission kept", map[string]interface{}{
			"requestId":     reqID,
			"applicationId": record.ID,
			"error":         err,
		})
	} else if notified.AlertStatus == sendnotification.StatusFailed {
		metrics.NotificationsFailed.WithLabelValues("sns").Inc()
	}

	observe(metrics.OutcomeAccepted, start)
	h.logger.Info("application submitted", map[string]interface{}{
		"requestId":     reqID,
		"applicationId": record.ID,
	})

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success: true,
		Message: SuccessMessage,
		ID:      record.ID,
	})
}

func validationError(err error) error {
	var missing *validateapplicationdata.MissingFieldError
	switch {
	case errors.As(err, &missing):
		return apperrors.NewApplicationValidationFailedError(missing.Message, err)
	case errors.Is(err, validateapplicationdata.ErrInvalidPayload):
		return apperrors.NewApplicationValidationFailedError(InvalidPayloadMessage, err)
	case errors.Is(err, validateapplicationdata.ErrInvalidRequestBody):
		return apperrors.NewInvalidRequestBodyError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}

func observe(outcome string, start time.Time) {
	metrics.ApplicationsSubmitted.WithLabelValues(outcome).Inc()
	metrics.SubmitDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", map[string]interface{}{"error": err})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var _ RecordStore = (*createapplicationrecord.Handler)(nil)
