package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stadium-bot/internal/models"
)

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(models.User{ID: 1, FirstName: "Иван", Email: "ivan@example.com"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	u, err := c.Me(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Иван", u.FirstName)
}

func TestMeExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Me(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Me(context.Background(), "tok")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Detail)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login/access-token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ivan@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		_ = json.NewEncoder(w).Encode(models.Token{AccessToken: "fresh-token", TokenType: "bearer"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	tok, err := c.Login(context.Background(), "ivan@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Incorrect email or password"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "ivan@example.com", "wrong")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Incorrect email or password", se.Detail)
}

func TestUnauthenticated401IsNotSessionExpiry(t *testing.T) {
	// 401 maps to ErrUnauthorized only when a token was actually sent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"nope"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Stadiums(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestBookingsFromDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/booking/booking_from_date", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("stadium_id"))
		assert.Equal(t, "2025-01-29", r.URL.Query().Get("date"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]models.Booking{
			{ID: 10, StadiumID: 3, StartTime: "2025-01-29T09:00:00", EndTime: "2025-01-29T10:00:00", UserID: 1},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	bookings, err := c.BookingsFromDate(context.Background(), 3, "2025-01-29")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(10), bookings[0].ID)
}

func TestCreateBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/booking/create", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var req models.BookingCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(3), req.StadiumID)
		assert.Equal(t, "2025-01-29T09:00:00.000", req.StartTime)
		assert.Equal(t, "2025-01-29T10:30:00.000", req.EndTime)

		_ = json.NewEncoder(w).Encode(models.Booking{ID: 55, StadiumID: 3, UserID: 1})
	}))
	defer srv.Close()

	c := New(srv.URL)
	b, err := c.CreateBooking(context.Background(), "tok", models.BookingCreate{
		StadiumID: 3,
		StartTime: "2025-01-29T09:00:00.000",
		EndTime:   "2025-01-29T10:30:00.000",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(55), b.ID)
}

func TestDeleteBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/booking/delete/55", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "deleted"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeleteBooking(context.Background(), "tok", 55))
}

func TestMyBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/booking/read", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]models.Booking{
			{ID: 1, Stadium: models.Stadium{Name: "Лужники", Address: "Москва"}},
			{ID: 2, Stadium: models.Stadium{Name: "Арена", Address: "Казань"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	bookings, err := c.MyBookings(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "Лужники", bookings[0].Stadium.Name)
}
