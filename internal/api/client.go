package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"holidaze/internal/metrics"
	"holidaze/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type tokenKey struct{}

// WithToken returns a context carrying the bearer token to attach to the
// request. The bot serves many users, so the credential travels with the
// call rather than living in the client.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client is a typed HTTP client for the Holidaze REST API. All calls honor
// the passed context for cancellation and run under the client timeout; a
// shared limiter throttles outbound requests below the API rate limit.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

// Options tunes the client; zero values get sensible defaults.
type Options struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
}

func NewClient(baseURL, apiKey string, opts Options, logger *zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		logger:     logger,
	}
}

type listEnvelope struct {
	Data []models.Venue  `json:"data"`
	Meta models.PageMeta `json:"meta"`
}

// GetVenues fetches one listing page, newest first, fixed page size. A
// non-empty query switches to the search endpoint with the same paging.
func (c *Client) GetVenues(ctx context.Context, page int, query string) ([]models.Venue, models.PageMeta, error) {
	if page < 1 {
		page = 1
	}

	endpoint := c.baseURL + "/holidaze/venues"
	params := url.Values{}
	if query != "" {
		endpoint += "/search"
		params.Set("q", query)
	}
	params.Set("limit", strconv.Itoa(models.PageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", models.ListingSort)
	params.Set("sortOrder", models.ListingSortOrder)

	var envelope listEnvelope
	if err := c.do(ctx, http.MethodGet, endpoint+"?"+params.Encode(), "venues_list", nil, &envelope); err != nil {
		return nil, models.PageMeta{}, err
	}
	return envelope.Data, envelope.Meta, nil
}

// GetVenue fetches a single venue with owner, bookings and booking
// customers included; the booking form needs them for its blocked dates.
func (c *Client) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	endpoint := fmt.Sprintf("%s/holidaze/venues/%s?_owner=true&_bookings=true&_customer=true", c.baseURL, url.PathEscape(id))
	var envelope struct {
		Data models.Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, "venue_get", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) CreateVenue(ctx context.Context, input models.VenueInput) (*models.Venue, error) {
	endpoint := c.baseURL + "/holidaze/venues"
	var envelope struct {
		Data models.Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, "venue_create", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdateVenue submits a full replacement payload for the venue.
func (c *Client) UpdateVenue(ctx context.Context, id string, input models.VenueInput) (*models.Venue, error) {
	endpoint := fmt.Sprintf("%s/holidaze/venues/%s?_owner=true&_bookings=true", c.baseURL, url.PathEscape(id))
	var envelope struct {
		Data models.Venue `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, endpoint, "venue_update", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// DeleteVenue deletes a venue by id. The API answers 204 without a body.
func (c *Client) DeleteVenue(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/holidaze/venues/%s", c.baseURL, url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, endpoint, "venue_delete", nil, nil)
}

func (c *Client) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	endpoint := c.baseURL + "/holidaze/bookings"
	var envelope struct {
		Data models.Booking `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, "booking_create", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/holidaze/bookings/%s", c.baseURL, url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, endpoint, "booking_delete", nil, nil)
}

// GetProfile fetches a profile with its bookings and venues included.
func (c *Client) GetProfile(ctx context.Context, name string) (*models.Profile, error) {
	endpoint := fmt.Sprintf("%s/holidaze/profiles/%s?_bookings=true&_venues=true", c.baseURL, url.PathEscape(name))
	var envelope struct {
		Data models.Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, "profile_get", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name string, input models.ProfileInput) (*models.Profile, error) {
	endpoint := fmt.Sprintf("%s/holidaze/profiles/%s", c.baseURL, url.PathEscape(name))
	var envelope struct {
		Data models.Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, endpoint, "profile_update", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) Login(ctx context.Context, input models.LoginInput) (*models.AuthUser, error) {
	endpoint := c.baseURL + "/auth/login?_holidaze=true"
	var envelope struct {
		Data models.AuthUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, "auth_login", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*models.AuthUser, error) {
	endpoint := c.baseURL + "/auth/register"
	var envelope struct {
		Data models.AuthUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, "auth_register", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, label string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addHeaders(req, tokenFromContext(ctx))

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(label, "transport_error", time.Since(start))
		c.logger.Error().Err(err).Str("request_id", requestID).Str("endpoint", label).Msg("api request failed")
		return fmt.Errorf("%s: %w", label, err)
	}
	defer resp.Body.Close()

	metrics.ObserveAPIRequest(label, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 300 {
		apiErr := newError(resp)
		c.logger.Warn().
			Str("request_id", requestID).
			Str("endpoint", label).
			Int("status", resp.StatusCode).
			Msg("api returned error")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", label, err)
	}
	return nil
}

func (c *Client) addHeaders(req *http.Request, token string) {
	if c.apiKey != "" {
		req.Header.Set("X-Noroff-API-Key", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
