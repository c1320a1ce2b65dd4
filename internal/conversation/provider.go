package conversation

import (
	"context"

	"HotelAssistant/internal/entity"
)

// HotelProvider serves a full in-memory snapshot of the catalog. The engine
// never pages through it.
type HotelProvider interface {
	ListHotels(ctx context.Context) ([]entity.Hotel, error)
	ListCities(ctx context.Context) ([]string, error)
}

type emptyProvider struct{}

func (emptyProvider) ListHotels(context.Context) ([]entity.Hotel, error) { return nil, nil }

func (emptyProvider) ListCities(context.Context) ([]string, error) { return nil, nil }
