// Package wizard drives the five-step builder application form.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"builder-network/internal/common/logger"
	"builder-network/internal/models"
	"builder-network/pkg/registry"
)

const (
	FirstStep = 1
	LastStep  = 5
)

var stepTitles = [...]string{"Company Info", "Experience", "Insurance", "Project History", "Standards"}

const (
	SuccessNotice = "Application submitted successfully!"
	FailureNotice = "There was an error submitting the application. Please try again."
)

var (
	ErrUnknownField    = errors.New("UNKNOWN_FIELD")
	ErrUnknownSection  = errors.New("UNKNOWN_SECTION")
	ErrIndexOutOfRange = errors.New("INDEX_OUT_OF_RANGE")
	ErrSubmitFailed    = errors.New("SUBMIT_FAILED")
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

// Notice is the message shown to the applicant after a submit attempt.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Result is the backend's answer to a submission.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type Submitter interface {
	Submit(ctx context.Context, payload *models.Application) (*Result, error)
}

// Controller holds the draft and the current step. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	step      int
	draft     *models.Application
	revision  uint64 // bumped by every draft edit
	catalog   *registry.Catalog
	submitter Submitter
	logger    logger.Logger
}

func NewController(submitter Submitter, catalog *registry.Catalog, log logger.Logger) *Controller {
	if catalog == nil {
		catalog = registry.Default()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Controller{
		step:      FirstStep,
		draft:     models.NewApplication(catalog),
		catalog:   catalog,
		submitter: submitter,
		logger:    log.WithFields(map[string]interface{}{"component": "wizard"}),
	}
}

func (c *Controller) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	field, ok := c.draft.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	*field = value
	c.revision++
	return nil
}

func (c *Controller) UpdateProject(index int, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.draft.Projects) {
		return fmt.Errorf("%w: project %d", ErrIndexOutOfRange, index)
	}
	ptr, ok := c.draft.Projects[index].Field(field)
	if !ok {
		return fmt.Errorf("%w: project.%s", ErrUnknownField, field)
	}
	*ptr = value
	c.revision++
	return nil
}

func (c *Controller) UpdateReference(index int, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.draft.References) {
		return fmt.Errorf("%w: reference %d", ErrIndexOutOfRange, index)
	}
	ptr, ok := c.draft.References[index].Field(field)
	if !ok {
		return fmt.Errorf("%w: reference.%s", ErrUnknownField, field)
	}
	*ptr = value
	c.revision++
	return nil
}

func (c *Controller) UpdateCertification(index int, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.draft.Certifications) {
		return fmt.Errorf("%w: certification %d", ErrIndexOutOfRange, index)
	}
	c.draft.Certifications[index] = value
	c.revision++
	return nil
}

// ToggleFlag inverts one checkbox of a catalog section.
func (c *Controller) ToggleFlag(section, flag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	flags, ok := c.draft.Flags(section)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	if !c.catalog.HasOption(section, flag) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, flag)
	}
	flags[flag] = !flags[flag]
	c.revision++
	return nil
}

// SelectedFlags returns the labels of the checked flags in catalog order.
func (c *Controller) SelectedFlags(section string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	flags, ok := c.draft.Flags(section)
	if !ok {
		return nil
	}
	return c.catalog.SelectedLabels(section, flags)
}

func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step < LastStep {
		c.step++
	}
}

func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > FirstStep {
		c.step--
	}
}

// GoTo jumps to a step; out-of-range steps are ignored.
func (c *Controller) GoTo(step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if step >= FirstStep && step <= LastStep {
		c.step = step
	}
}

func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) StepTitle() string {
	return StepTitle(c.Step())
}

// Progress is the completion percentage shown in the progress bar.
func (c *Controller) Progress() float64 {
	return float64(c.Step()) / LastStep * 100
}

func (c *Controller) IsLastStep() bool {
	return c.Step() == LastStep
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() *models.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Payload is the request body sent on submit. References are not part of it.
func (c *Controller) Payload() *models.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	return payloadOf(c.draft)
}

func payloadOf(draft *models.Application) *models.Application {
	p := draft.Clone()
	p.References = nil
	return p
}

// Submit sends the payload. On success the wizard returns to step one with a
// fresh draft, unless the draft was edited while the request was in flight;
// those edits are kept. On failure nothing changes.
func (c *Controller) Submit(ctx context.Context) (Notice, error) {
	c.mu.Lock()
	payload := payloadOf(c.draft)
	sent := c.revision
	c.mu.Unlock()

	result, err := c.submitter.Submit(ctx, payload)
	if err == nil && (result == nil || !result.Success) {
		msg := ""
		if result != nil {
			msg = result.Message
		}
		err = fmt.Errorf("backend rejected submission: %s", msg)
	}
	if err != nil {
		c.logger.Error("error submitting form", map[string]interface{}{
			"error":             err,
			"legalBusinessName": payload.LegalBusinessName,
		})
		return Notice{Kind: NoticeFailure, Message: FailureNotice}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	c.mu.Lock()
	reset := c.revision == sent
	if reset {
		c.step = FirstStep
		c.draft = models.NewApplication(c.catalog)
		c.revision++
	}
	c.mu.Unlock()

	c.logger.Info("application submitted", map[string]interface{}{
		"applicationId": result.ID,
		"draftReset":    reset,
	})
	return Notice{Kind: NoticeSuccess, Message: SuccessNotice}, nil
}

// StepTitle returns the tab title of a step, or "" when out of range.
func StepTitle(step int) string {
	if step < FirstStep || step > LastStep {
		return ""
	}
	return stepTitles[step-1]
}
