// File: services/meeting/client.go
package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"monet/utils"

	"go.uber.org/zap"
)

// HTTPMeetingClient implements MeetingPort against a JSON meetings API
// (the concrete provider sits behind a gateway configured by base URL).
type HTTPMeetingClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewHTTPMeetingClient(baseURL, apiKey string, logger *zap.Logger) *HTTPMeetingClient {
	return &HTTPMeetingClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

func (c *HTTPMeetingClient) CreateMeeting(ctx context.Context, title string, startAt time.Time) (*Meeting, error) {
	payload := map[string]interface{}{
		"title":   title,
		"startAt": startAt.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meeting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build meeting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, utils.NewServiceError(utils.CodeMeetingFailed, "meeting provider unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, utils.NewServiceError(utils.CodeMeetingFailed, "meeting provider returned status %d", resp.StatusCode)
	}

	var m Meeting
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, utils.NewServiceError(utils.CodeMeetingFailed, "invalid meeting provider response: %v", err)
	}

	c.Logger.Info("meeting created", zap.String("meetingId", m.MeetingID))
	return &m, nil
}
