// Package mfapi provides a client for the mfapi.in mutual fund NAV API
package mfapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/interfaces"
	"github.com/bobmcallan/planlens/internal/models"
)

const (
	DefaultBaseURL   = "https://api.mfapi.in"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// ErrNoData is returned when the provider knows no NAV history for a scheme.
var ErrNoData = errors.New("no NAV data returned")

// Client implements the NAVProvider interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new mfapi.in client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mfapi error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", reqURL).Msg("mfapi request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type navResponse struct {
	Meta struct {
		FundHouse      string          `json:"fund_house"`
		SchemeType     string          `json:"scheme_type"`
		SchemeCategory string          `json:"scheme_category"`
		SchemeName     string          `json:"scheme_name"`
		SchemeCode     json.RawMessage `json:"scheme_code"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

type searchResult struct {
	SchemeCode json.RawMessage `json:"schemeCode"`
	SchemeName string          `json:"schemeName"`
}

// GetNAVHistory retrieves a scheme's metadata and NAV history (newest first).
// A sample with a malformed date or NAV fails the whole call.
func (c *Client) GetNAVHistory(ctx context.Context, schemeCode string) (*models.FundNAV, error) {
	schemeCode = strings.TrimSpace(schemeCode)
	if schemeCode == "" {
		return nil, fmt.Errorf("empty scheme code")
	}

	path := "/mf/" + url.PathEscape(schemeCode)

	var resp navResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("scheme %s: %w", schemeCode, ErrNoData)
	}

	fund := &models.FundNAV{
		Meta: models.FundMeta{
			SchemeCode: schemeCode,
			SchemeName: resp.Meta.SchemeName,
			FundHouse:  resp.Meta.FundHouse,
			SchemeType: resp.Meta.SchemeType,
			Category:   resp.Meta.SchemeCategory,
		},
		Samples:   make([]models.NAVSample, 0, len(resp.Data)),
		FetchedAt: time.Now(),
	}
	if code := flexCode(resp.Meta.SchemeCode); code != "" {
		fund.Meta.SchemeCode = code
	}

	for i, d := range resp.Data {
		date, err := models.ParseNAVDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("scheme %s sample %d: %w", schemeCode, i, err)
		}
		nav, err := models.ParseNAV(d.NAV)
		if err != nil {
			return nil, fmt.Errorf("scheme %s sample %d (%s): %w", schemeCode, i, d.Date, err)
		}
		fund.Samples = append(fund.Samples, models.NAVSample{Date: date, Value: nav})
	}

	c.logger.Debug().Str("scheme", schemeCode).Int("samples", len(fund.Samples)).Msg("NAV history fetched")
	return fund, nil
}

// SearchFunds finds schemes whose name matches query
func (c *Client) SearchFunds(ctx context.Context, query string) ([]models.FundSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.FundSearchResult{}, nil
	}

	params := url.Values{}
	params.Set("q", query)

	var raw []searchResult
	if err := c.get(ctx, "/mf/search", params, &raw); err != nil {
		return nil, err
	}

	results := make([]models.FundSearchResult, 0, len(raw))
	for _, r := range raw {
		code := flexCode(r.SchemeCode)
		if code == "" {
			continue
		}
		results = append(results, models.FundSearchResult{SchemeCode: code, SchemeName: r.SchemeName})
	}
	return results, nil
}

// flexCode reads a scheme code sent either as a JSON number or a string.
func flexCode(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

// Compile-time check
var _ interfaces.NAVProvider = (*Client)(nil)
