package entity

import (
	"time"

	"github.com/lib/pq"
)

type Hotel struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	City          string         `db:"city" json:"city"`
	Country       string         `db:"country" json:"country"`
	Address       string         `db:"address" json:"address,omitempty"`
	Description   string         `db:"description" json:"description,omitempty"`
	PricePerNight float64        `db:"price_per_night" json:"pricePerNight"`
	Rating        float64        `db:"rating" json:"rating"`
	StarRating    int            `db:"star_rating" json:"starRating"`
	Amenities     pq.StringArray `db:"amenities" json:"amenities"`
	ImageURL      string         `db:"image_url" json:"imageUrl,omitempty"`
	Rooms         []Room         `db:"-" json:"rooms,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"-"`
	UpdatedAt     time.Time      `db:"updated_at" json:"-"`
}

type Room struct {
	ID            string  `db:"id" json:"id"`
	HotelID       string  `db:"hotel_id" json:"hotelId"`
	Type          string  `db:"type" json:"type"`
	PricePerNight float64 `db:"price_per_night" json:"pricePerNight"`
	MaxGuests     int     `db:"max_guests" json:"maxGuests"`
}
