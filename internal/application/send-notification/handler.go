// internal/application/send-notification/handler.go
package sendnotification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"builder-network/internal/common/logger"
	"builder-network/pkg/registry"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	catalog   *registry.Catalog
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

// NewHandler wires the staff notifier. snsClient may be nil when alerts are off.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, catalog *registry.Catalog, log logger.Logger) *Handler {
	if catalog == nil {
		catalog = registry.Default()
	}
	return &Handler{
		config:    config,
		catalog:   catalog,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Application == nil {
		return nil, fmt.Errorf("%w: no application", ErrNotificationSendFailed)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		EmailStatus:    StatusDisabled,
		AlertStatus:    StatusDisabled,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	subject := Subject(input.Application.LegalBusinessName)

	if h.config.EmailEnabled && h.sesClient != nil {
		body, err := h.RenderHTML(input)
		if err != nil {
			return nil, fmt.Errorf("%w: render: %v", ErrNotificationSendFailed, err)
		}

		messageID, err := h.sendEmail(ctx, subject, body)
		if err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":         err,
				"applicationId": recordID(input),
				"to":            h.config.StaffAddress,
			})
			return nil, fmt.Errorf("%w: ses: %v", ErrNotificationSendFailed, err)
		}
		output.EmailStatus = StatusSent
		output.MessageID = messageID
	}

	if h.config.AlertEnabled && h.snsClient != nil && h.config.TopicARN != "" {
		if err := h.publishAlert(ctx, subject, input); err != nil {
			h.logger.Warn("staff alert publish failed", map[string]interface{}{
				"error":         err,
				"applicationId": recordID(input),
				"topicArn":      h.config.TopicARN,
			})
			output.AlertStatus = StatusFailed
		} else {
			output.AlertStatus = StatusSent
		}
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"applicationId": recordID(input),
		"emailStatus":   output.EmailStatus,
		"alertStatus":   output.AlertStatus,
	})

	return output, nil
}

// Subject is the staff email subject line for a business.
func Subject(legalBusinessName string) string {
	return subjectPrefix + legalBusinessName
}

// RenderHTML renders the staff summary email. Submitted values are HTML-escaped.
func (h *Handler) RenderHTML(input *Input) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, newEmailView(h.catalog, input.Application, input.Record)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (h *Handler) sendEmail(ctx context.Context, subject, body string) (string, error) {
	from := h.config.FromEmail
	if from == "" {
		from = h.config.StaffAddress
	}

	out, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{h.config.StaffAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(from),
	})
	if err != nil {
		return "", err
	}
	if out != nil && out.MessageId != nil {
		return *out.MessageId, nil
	}
	return "", nil
}

func (h *Handler) publishAlert(ctx context.Context, subject string, input *Input) error {
	app := input.Application
	message := fmt.Sprintf("New builder application from %s. Contact: %s <%s>.",
		app.LegalBusinessName, app.ContactName, app.ContactEmail)
	if id := recordID(input); id != "" {
		message += " Record: " + id + "."
	}

	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String(snsSubject(subject)),
		Message:  aws.String(message),
	})
	return err
}

func recordID(input *Input) string {
	if input.Record == nil {
		return ""
	}
	return input.Record.ID
}

// snsSubject folds accents to ASCII and drops whatever SNS refuses in a
// subject: other non-ASCII runes and control characters.
func snsSubject(subject string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), subject)
	if err != nil {
		folded = subject
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsControl(r) || unicode.IsSpace(r):
			b.WriteByte(' ')
		case r < unicode.MaxASCII:
			b.WriteRune(r)
		}
	}
	return truncate(strings.Join(strings.Fields(b.String()), " "), snsSubjectMaxLen)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
