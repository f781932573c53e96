// File: services/calendar/client.go
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"monet/models"
	"monet/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HTTPCalendarClient implements CalendarReadPort against a calendar sync
// gateway. Busy windows are cached in Redis for a short TTL so repeated
// availability reads do not hammer the upstream.
type HTTPCalendarClient struct {
	BaseURL string
	Client  *http.Client
	Cache   *redis.Client
	Logger  *zap.Logger
}

const busyCacheTTL = 5 * time.Minute

func NewHTTPCalendarClient(baseURL string, cache *redis.Client, logger *zap.Logger) *HTTPCalendarClient {
	return &HTTPCalendarClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Cache:   cache,
		Logger:  logger,
	}
}

func (c *HTTPCalendarClient) GetBusyIntervals(ctx context.Context, userID string, window models.TimeSlot) ([]models.TimeSlot, error) {
	cacheKey := fmt.Sprintf("busy:%s:%d:%d", userID, window.Start.Unix(), window.End.Unix())
	if cached, err := c.Cache.Get(ctx, cacheKey).Result(); err == nil {
		var slots []models.TimeSlot
		if err := json.Unmarshal([]byte(cached), &slots); err == nil {
			return slots, nil
		}
	}

	endpoint := fmt.Sprintf("%s/users/%s/busy?from=%s&to=%s",
		c.BaseURL, url.PathEscape(userID),
		url.QueryEscape(window.Start.UTC().Format(time.RFC3339)),
		url.QueryEscape(window.End.UTC().Format(time.RFC3339)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build busy-intervals request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}

	var slots []models.TimeSlot
	if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
		return nil, fmt.Errorf("invalid calendar gateway response: %w", err)
	}

	if data, err := json.Marshal(slots); err == nil {
		if err := c.Cache.Set(ctx, cacheKey, data, busyCacheTTL).Err(); err != nil {
			c.Logger.Warn("failed to cache busy intervals", zap.String("userId", userID), zap.Error(err))
		}
	}
	return slots, nil
}

// BestEffortBusy wraps a port read with the degradation policy: auth
// failures surface as NOT_AUTHENTICATED, anything else degrades to an
// empty set.
func BestEffortBusy(ctx context.Context, port CalendarReadPort, userID string, window models.TimeSlot, logger *zap.Logger) ([]models.TimeSlot, error) {
	if port == nil {
		return nil, nil
	}
	slots, err := port.GetBusyIntervals(ctx, userID, window)
	if err == ErrNotAuthenticated {
		return nil, utils.NewServiceError(utils.CodeNotAuthenticated, "calendar link for user %s has expired", userID)
	}
	if err != nil {
		logger.Warn("busy-time enrichment degraded", zap.String("userId", userID), zap.Error(err))
		return nil, nil
	}
	return slots, nil
}
