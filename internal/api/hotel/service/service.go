package hotelService

import (
	"sync"
	"time"

	"HotelAssistant/internal/api/hotel"
	hotelRepository "HotelAssistant/internal/api/hotel/repository"
	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// IHotelService is the catalog the conversation engine and the hotel
// endpoints read from. It satisfies conversation.HotelProvider.
type IHotelService interface {
	ListHotels(ctx context.Context) ([]entity.Hotel, error)
	ListCities(ctx context.Context) ([]string, error)

	HotelsInCity(ctx context.Context, query hotel.ListHotelsQuery) (*hotel.HotelListResponse, error)
	GetHotel(ctx context.Context, id string) (*entity.Hotel, error)

	Refresh(ctx context.Context) error
	Start(ctx context.Context, interval time.Duration)
}

type hotelService struct {
	log       *logrus.Logger
	hotelRepo hotelRepository.Repository
	metrics   metrics.IMetrics

	mu       sync.RWMutex
	snapshot []entity.Hotel
	byID     map[string]entity.Hotel
	cities   []string
	loaded   bool
}

func NewHotelService(log *logrus.Logger, hotelRepo hotelRepository.Repository, m metrics.IMetrics) IHotelService {
	if m == nil {
		m = metrics.Noop()
	}

	return &hotelService{
		log:       log,
		hotelRepo: hotelRepo,
		metrics:   m,
		byID:      map[string]entity.Hotel{},
	}
}
