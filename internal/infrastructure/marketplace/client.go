package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sellerpulse/backend/internal/infrastructure/config"
)

// maxResponseSize caps how much of a response body is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

// capabilityMarker prefixes the missing-capability name in 401 bodies
const capabilityMarker = "missing capability:"

// Client performs authenticated calls against the marketplace seller
// API. One client is shared by all cabinets; the per-call bearer token
// selects the cabinet. All calls go through the shared Limiter, and
// only HTTP 429 is retried (fixed delay, bounded attempts).
type Client struct {
	baseURL       string
	httpClient    *http.Client
	limiter       Limiter
	retryAttempts int
	retryDelay    time.Duration
	pageSize      int
	logger        *zap.Logger

	// sleep is swappable in tests to avoid real delays
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a marketplace client from configuration
func NewClient(cfg config.MarketplaceConfig, limiter Limiter, logger *zap.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       limiter,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		pageSize:      cfg.PageSize,
		logger:        logger.Named("marketplace"),
		sleep:         sleepCtx,
	}
}

// sleepCtx blocks for d or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do performs one authenticated call with 429 retries and classifies
// every failure into an *APIError. out may be nil for calls whose body
// is irrelevant.
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marketplace: failed to marshal request: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		status, respBody, err := c.send(ctx, token, method, path, payload)
		if err != nil {
			return err
		}

		switch {
		case status == http.StatusTooManyRequests:
			if attempt >= c.retryAttempts {
				return &APIError{Kind: KindRateLimitExceeded, Status: status, Body: string(respBody)}
			}
			c.logger.Warn("rate limited, backing off",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", c.retryDelay),
			)
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return err
			}
			continue

		case status == http.StatusUnauthorized:
			if missing := parseMissingCapability(respBody); missing != "" {
				return &APIError{Kind: KindAuthScope, Status: status, Missing: missing, Body: string(respBody)}
			}
			return &APIError{Kind: KindRemote, Status: status, Body: string(respBody)}

		case status == http.StatusUnprocessableEntity:
			return &APIError{Kind: KindValidationRejected, Status: status, Body: string(respBody)}

		case status < 200 || status >= 300:
			return &APIError{Kind: KindRemote, Status: status, Body: string(respBody)}
		}

		if out == nil {
			return nil
		}
		if len(respBody) == 0 {
			return &APIError{Kind: KindRemote, Status: status, Body: "empty body"}
		}
		// Unknown fields are deliberately ignored for forward compatibility
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{Kind: KindRemote, Status: status, Body: fmt.Sprintf("undecodable body: %v", err)}
		}
		return nil
	}
}

// send issues a single HTTP request and reads the capped body
func (c *Client) send(ctx context.Context, token, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("marketplace: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("marketplace: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("marketplace: failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// parseMissingCapability extracts the capability name from a 401 body.
// The API reports capability-gated rejections as a problem body whose
// detail reads "missing capability: <name>".
func parseMissingCapability(body []byte) string {
	var p problem
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	idx := strings.Index(strings.ToLower(p.Detail), capabilityMarker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(p.Detail[idx+len(capabilityMarker):])
}

// envelopeError converts an embedded {error, errorText} envelope into
// an APIError when the endpoint signalled failure inside a 200 body
func envelopeError(env errEnvelope) error {
	if !env.Error {
		return nil
	}
	return &APIError{Kind: KindRemote, Status: http.StatusOK, Body: env.ErrorText}
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

// Ping verifies that the token is accepted by the API
func (c *Client) Ping(ctx context.Context, token string) error {
	return c.do(ctx, token, http.MethodGet, "/ping", nil, nil)
}

// GetPrices fetches current pricing for up to MaxPriceIDs cards
func (c *Client) GetPrices(ctx context.Context, token string, nmIDs []int64) ([]GoodPrices, error) {
	if len(nmIDs) > MaxPriceIDs {
		return nil, fmt.Errorf("marketplace: price lookup limited to %d ids, got %d", MaxPriceIDs, len(nmIDs))
	}
	var resp priceListResponse
	if err := c.do(ctx, token, http.MethodPost, "/api/v2/list/goods/filter", priceListRequest{NmIDs: nmIDs}, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.errEnvelope); err != nil {
		return nil, err
	}
	return resp.Data.ListGoods, nil
}

// GetStocks fetches the full current stock list for the cabinet
func (c *Client) GetStocks(ctx context.Context, token string, since time.Time) ([]Stock, error) {
	path := "/api/v1/supplier/stocks?dateFrom=" + since.UTC().Format(DateLayout)
	var stocks []Stock
	if err := c.do(ctx, token, http.MethodGet, path, nil, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// ListCampaigns fetches all campaign heads for the cabinet
func (c *Client) ListCampaigns(ctx context.Context, token string) ([]CampaignHead, error) {
	var resp campaignListResponse
	if err := c.do(ctx, token, http.MethodGet, "/adv/v1/promotion/count", nil, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.errEnvelope); err != nil {
		return nil, err
	}
	return resp.Adverts, nil
}

// GetCampaignDetails fetches full campaign records for up to
// MaxCampaignDetailIDs ids
func (c *Client) GetCampaignDetails(ctx context.Context, token string, advertIDs []int64) ([]CampaignDetail, error) {
	if len(advertIDs) > MaxCampaignDetailIDs {
		return nil, fmt.Errorf("marketplace: campaign detail lookup limited to %d ids, got %d", MaxCampaignDetailIDs, len(advertIDs))
	}
	var details []CampaignDetail
	if err := c.do(ctx, token, http.MethodPost, "/adv/v1/promotion/adverts", advertIDs, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// GetCampaignStats fetches per-day ad statistics for one campaign over
// an inclusive day range
func (c *Client) GetCampaignStats(ctx context.Context, token string, advertID int64, from, to time.Time) ([]CampaignDayStat, error) {
	dates := make([]string, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	var resp []campaignStatsResponse
	req := []campaignStatsRequest{{AdvertID: advertID, Dates: dates}}
	if err := c.do(ctx, token, http.MethodPost, "/adv/v2/fullstats", req, &resp); err != nil {
		return nil, err
	}
	for _, r := range resp {
		if r.AdvertID == advertID {
			return r.Days, nil
		}
	}
	return nil, nil
}

// GetCardAnalytics fetches per-day funnel history for up to
// MaxAnalyticsIDs cards over an inclusive day range
func (c *Client) GetCardAnalytics(ctx context.Context, token string, nmIDs []int64, from, to time.Time) ([]CardAnalytics, error) {
	if len(nmIDs) > MaxAnalyticsIDs {
		return nil, fmt.Errorf("marketplace: analytics lookup limited to %d ids, got %d", MaxAnalyticsIDs, len(nmIDs))
	}
	req := cardAnalyticsRequest{
		NmIDs: nmIDs,
		Period: analyticsPeriod{
			Begin: from.Format(DateLayout),
			End:   to.Format(DateLayout),
		},
	}
	var resp cardAnalyticsResponse
	if err := c.do(ctx, token, http.MethodPost, "/api/v2/nm-report/detail/history", req, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.errEnvelope); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPromotions fetches promotional-calendar entries in a day range
func (c *Client) ListPromotions(ctx context.Context, token string, from, to time.Time) ([]PromotionHead, error) {
	path := fmt.Sprintf("/api/v1/calendar/promotions?startDateTime=%s&endDateTime=%s",
		from.Format(DateLayout), to.Format(DateLayout))
	var resp promotionListResponse
	if err := c.do(ctx, token, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Promotions, nil
}

// GetPromotionDetail fetches one promotional-calendar entry with its
// participating card ids. Auto-generated promotions are rejected by the
// API with HTTP 422, which callers skip individually.
func (c *Client) GetPromotionDetail(ctx context.Context, token string, promotionID int64) (*PromotionDetail, error) {
	path := fmt.Sprintf("/api/v1/calendar/promotions/details?promotionIDs=%d", promotionID)
	var resp promotionDetailResponse
	if err := c.do(ctx, token, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.Promotions) == 0 {
		return nil, &APIError{Kind: KindRemote, Status: http.StatusOK, Body: "promotion detail missing from response"}
	}
	return &resp.Data.Promotions[0], nil
}

// GetRatings fetches aggregate review ratings for up to MaxRatingIDs cards
func (c *Client) GetRatings(ctx context.Context, token string, nmIDs []int64) ([]ItemRating, error) {
	if len(nmIDs) > MaxRatingIDs {
		return nil, fmt.Errorf("marketplace: rating lookup limited to %d ids, got %d", MaxRatingIDs, len(nmIDs))
	}
	var resp ratingResponse
	if err := c.do(ctx, token, http.MethodPost, "/api/v1/feedbacks/products/rating", ratingRequest{NmIDs: nmIDs}, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.errEnvelope); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
