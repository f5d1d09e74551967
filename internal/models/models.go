package models

// Wire types of the booking backend API. Timestamps are ISO-8601 local
// strings as the backend sends them ("2025-01-29T09:00:00").

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type Stadium struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Price   float64 `json:"price"`
	Slug    string  `json:"slug"`
}

type Booking struct {
	ID        int64   `json:"id"`
	StadiumID int64   `json:"stadium_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	UserID    int64   `json:"user_id"`
	Price     float64 `json:"price"`
	Stadium   Stadium `json:"stadium"`
}

type BookingCreate struct {
	StadiumID int64  `json:"stadium_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
