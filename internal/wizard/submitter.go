package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	httpclient "builder-network/internal/common/http"
	"builder-network/internal/models"
)

const submitPath = "/api/submit-builder-application"

// HTTPSubmitter posts the payload to a running application server.
type HTTPSubmitter struct {
	baseURL string
	client  *httpclient.Client
}

func NewHTTPSubmitter(baseURL string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewClient(timeout),
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, payload *models.Application) (*Result, error) {
	var result Result
	err := s.client.PostJSON(ctx, s.baseURL+submitPath, payload, &result)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			// Surface the server's message when the error body follows the contract.
			if json.Unmarshal(statusErr.Body, &result) == nil && result.Message != "" {
				return &result, fmt.Errorf("status %d: %s", statusErr.StatusCode, result.Message)
			}
		}
		return nil, err
	}
	return &result, nil
}
