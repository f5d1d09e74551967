// Package api is the HTTP client for the remote booking backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"stadium-bot/internal/metrics"
	"stadium-bot/internal/models"
)

// ErrUnauthorized marks a 401 on an authenticated call: the session token
// is no longer accepted and must be dropped.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is any other non-2xx answer from the backend.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %d %s: %s", e.Code, http.StatusText(e.Code), e.Detail)
	}
	return fmt.Sprintf("backend: %d %s", e.Code, http.StatusText(e.Code))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.APIMetrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a bearer token
// (POST /auth/login/access-token, OAuth2 password form).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok models.Token
	err := c.call(ctx, call{
		name:        "login",
		method:      http.MethodPost,
		path:        "/auth/login/access-token",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &tok)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Me fetches the profile of the token's owner (GET /user/me).
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := c.call(ctx, call{
		name:   "me",
		method: http.MethodGet,
		path:   "/user/me",
		token:  token,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Stadiums lists all stadiums (GET /stadium/all).
func (c *Client) Stadiums(ctx context.Context) ([]models.Stadium, error) {
	var out []models.Stadium
	err := c.call(ctx, call{
		name:   "stadiums",
		method: http.MethodGet,
		path:   "/stadium/all",
	}, &out)
	return out, err
}

// BookingsFromDate lists the bookings of one stadium on one date
// (GET /booking/booking_from_date?stadium_id=&date=YYYY-MM-DD).
func (c *Client) BookingsFromDate(ctx context.Context, stadiumID int64, date string) ([]models.Booking, error) {
	q := url.Values{}
	q.Set("stadium_id", strconv.FormatInt(stadiumID, 10))
	q.Set("date", date)

	var out []models.Booking
	err := c.call(ctx, call{
		name:   "bookings_from_date",
		method: http.MethodGet,
		path:   "/booking/booking_from_date?" + q.Encode(),
	}, &out)
	return out, err
}

// MyBookings lists the booking history of the token's owner
// (GET /booking/read).
func (c *Client) MyBookings(ctx context.Context, token string) ([]models.Booking, error) {
	var out []models.Booking
	err := c.call(ctx, call{
		name:   "my_bookings",
		method: http.MethodGet,
		path:   "/booking/read",
		token:  token,
	}, &out)
	return out, err
}

// CreateBooking books an interval (POST /booking/create). Each attempt
// carries a fresh Idempotency-Key so the backend can deduplicate a retried
// request.
func (c *Client) CreateBooking(ctx context.Context, token string, req models.BookingCreate) (*models.Booking, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("create booking: marshal: %w", err)
	}

	var b models.Booking
	err = c.call(ctx, call{
		name:        "create_booking",
		method:      http.MethodPost,
		path:        "/booking/create",
		token:       token,
		body:        body,
		contentType: "application/json",
		idempotent:  true,
	}, &b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBooking cancels a booking (DELETE /booking/delete/{id}).
func (c *Client) DeleteBooking(ctx context.Context, token string, bookingID int64) error {
	return c.call(ctx, call{
		name:   "delete_booking",
		method: http.MethodDelete,
		path:   "/booking/delete/" + strconv.FormatInt(bookingID, 10),
		token:  token,
	}, nil)
}

type call struct {
	name        string
	method      string
	path        string
	token       string
	body        []byte
	contentType string
	idempotent  bool
}

func (c *Client) call(ctx context.Context, cl call, out any) error {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.name, err)
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	if cl.idempotent {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(cl.name, "transport_error", time.Since(started).Seconds())
		return fmt.Errorf("%s: request failed: %w", cl.name, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(cl.name, strconv.Itoa(resp.StatusCode), time.Since(started).Seconds())

	if resp.StatusCode == http.StatusUnauthorized && cl.token != "" {
		return fmt.Errorf("%s: %w", cl.name, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", cl.name, &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", cl.name, err)
		}
	}
	return nil
}

// readDetail extracts the backend's {"detail": "..."} error message.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
