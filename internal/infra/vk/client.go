// Package vk implements the VK Bots API transport: message sending, user
// info lookup and the Bots Long Poll ingestion loop.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vk-ticket-bot/internal/config"
	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/adapter"
	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const apiBaseURL = "https://api.vk.com/method/"

var _ adapter.Messenger = (*Client)(nil)

// Client calls the VK API. A token-bucket limiter keeps us inside VK's
// 20 req/s group token budget.
type Client struct {
	token   string
	version string
	groupID int64
	httpc   *http.Client
	limiter *rate.Limiter
	baseURL string
	log     *zerolog.Logger
}

func NewClient(cfg *config.VKConfig, logger *zerolog.Logger) *Client {
	l := logger.With().Str("component", "VKClient").Logger()
	return &Client{
		token:   cfg.Token,
		version: cfg.APIVersion,
		groupID: cfg.GroupID,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(20, 5),
		baseURL: apiBaseURL,
		log:     &l,
	}
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

type apiResponse struct {
	Response json.RawMessage `json:"response"`
	Error    *apiError       `json:"error"`
}

// call performs one VK API method invocation and unwraps the response envelope.
func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("access_token", c.token)
	params.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.IncVKAPIError(method)
		return nil, fmt.Errorf("vk %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		metrics.IncVKAPIError(method)
		return nil, fmt.Errorf("vk %s: decode: %w", method, err)
	}
	if envelope.Error != nil {
		metrics.IncVKAPIError(method)
		return nil, fmt.Errorf("vk %s: api error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Response, nil
}

// SendMessage delivers text (and optionally a keyboard) to a peer.
func (c *Client) SendMessage(ctx context.Context, peerID int64, text, keyboard string) error {
	params := url.Values{
		"peer_id":   {strconv.FormatInt(peerID, 10)},
		"random_id": {strconv.FormatInt(rand.Int63(), 10)},
		"message":   {text},
	}
	if keyboard != "" {
		params.Set("keyboard", keyboard)
	}

	start := time.Now()
	_, err := c.call(ctx, "messages.send", params)
	metrics.ObserveVKSend(time.Since(start), err == nil)
	return err
}

type vkUser struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ScreenName string `json:"screen_name"`
	Online     int    `json:"online"`
}

// FetchUser looks the user up via users.get.
func (c *Client) FetchUser(ctx context.Context, vkID int64) (*model.User, error) {
	params := url.Values{
		"user_ids": {strconv.FormatInt(vkID, 10)},
		"fields":   {"screen_name,online"},
	}
	raw, err := c.call(ctx, "users.get", params)
	if err != nil {
		return nil, err
	}

	var users []vkUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("vk users.get: decode: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}

	vu := users[0]
	u, err := model.NewUser(vu.ID, vu.FirstName, vu.LastName, vu.ScreenName)
	if err != nil {
		return nil, err
	}
	u.IsOnline = vu.Online == 1
	return u, nil
}
