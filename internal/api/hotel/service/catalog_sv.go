package hotelService

import (
	"sort"
	"strings"
	"time"

	"HotelAssistant/internal/api/hotel"
	"HotelAssistant/internal/entity"
	contextPkg "HotelAssistant/pkg/context"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *hotelService) ListHotels(ctx context.Context) ([]entity.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, hotel.ErrCatalogUnavailable
	}

	hotels := make([]entity.Hotel, len(s.snapshot))
	copy(hotels, s.snapshot)
	return hotels, nil
}

func (s *hotelService) ListCities(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, hotel.ErrCatalogUnavailable
	}

	cities := make([]string, len(s.cities))
	copy(cities, s.cities)
	return cities, nil
}

func (s *hotelService) HotelsInCity(ctx context.Context, query hotel.ListHotelsQuery) (*hotel.HotelListResponse, error) {
	hotels, err := s.ListHotels(ctx)
	if err != nil {
		return nil, err
	}

	city := strings.TrimSpace(query.City)
	filtered := make([]entity.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if city != "" && !strings.EqualFold(h.City, city) {
			continue
		}
		if query.MinPrice > 0 && h.PricePerNight < query.MinPrice {
			continue
		}
		if query.MaxPrice > 0 && h.PricePerNight > query.MaxPrice {
			continue
		}
		filtered = append(filtered, h)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rating > filtered[j].Rating
	})

	return &hotel.HotelListResponse{
		City:   city,
		Total:  len(filtered),
		Hotels: filtered,
	}, nil
}

func (s *hotelService) GetHotel(ctx context.Context, id string) (*entity.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, hotel.ErrCatalogUnavailable
	}

	h, ok := s.byID[id]
	if !ok {
		return nil, hotel.ErrHotelNotFound
	}
	return &h, nil
}

// Refresh reloads the catalog. A failed load keeps the previous snapshot.
func (s *hotelService) Refresh(ctx context.Context) error {
	requestID := contextPkg.GetRequestID(ctx)

	hotels, err := s.load(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to refresh hotel catalog")
		s.metrics.RecordCatalogRefresh(0, err)
		return err
	}

	byID := make(map[string]entity.Hotel, len(hotels))
	seen := map[string]bool{}
	cities := make([]string, 0)
	for _, h := range hotels {
		byID[h.ID] = h
		key := strings.ToLower(h.City)
		if h.City != "" && !seen[key] {
			seen[key] = true
			cities = append(cities, h.City)
		}
	}
	sort.Strings(cities)

	s.mu.Lock()
	s.snapshot = hotels
	s.byID = byID
	s.cities = cities
	s.loaded = true
	s.mu.Unlock()

	s.metrics.RecordCatalogRefresh(len(hotels), nil)
	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"hotels":     len(hotels),
		"cities":     len(cities),
	}).Info("Hotel catalog refreshed")

	return nil
}

func (s *hotelService) load(ctx context.Context) ([]entity.Hotel, error) {
	repo, err := s.hotelRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	hotels, err := repo.Hotels.GetHotels(ctx)
	if err != nil {
		return nil, err
	}

	rooms, err := repo.Hotels.GetRooms(ctx)
	if err != nil {
		return nil, err
	}

	roomsByHotel := make(map[string][]entity.Room)
	for _, r := range rooms {
		roomsByHotel[r.HotelID] = append(roomsByHotel[r.HotelID], r)
	}
	for i := range hotels {
		hotels[i].Rooms = roomsByHotel[hotels[i].ID]
	}

	return hotels, nil
}

// Start loads the catalog once and then keeps it fresh until ctx is done.
func (s *hotelService) Start(ctx context.Context, interval time.Duration) {
	_ = s.Refresh(ctx)

	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Hotel catalog refresher stopped")
				return
			case <-ticker.C:
				_ = s.Refresh(ctx)
			}
		}
	}()
}
