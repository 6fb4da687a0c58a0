// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// LoadConfig resolves credentials through the SDK default chain
// (AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY, shared profile, instance role).
func LoadConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return sdkaws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return cfg, nil
}

type SESClient struct {
	client *ses.Client
}

func NewSESClient(cfg sdkaws.Config) *SESClient {
	return &SESClient{client: ses.NewFromConfig(cfg)}
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input, optFns...)
}
