package hotelHandler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"HotelAssistant/internal/api/hotel"
	"HotelAssistant/internal/entity"
	"HotelAssistant/internal/middleware"
	"HotelAssistant/pkg/handlerUtil"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeHotelService struct {
	lastQuery hotel.ListHotelsQuery
	err       error
}

func (f *fakeHotelService) ListHotels(ctx context.Context) ([]entity.Hotel, error) {
	return nil, f.err
}

func (f *fakeHotelService) ListCities(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"Chennai", "Ooty"}, nil
}

func (f *fakeHotelService) HotelsInCity(ctx context.Context, query hotel.ListHotelsQuery) (*hotel.HotelListResponse, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &hotel.HotelListResponse{
		City:   query.City,
		Total:  1,
		Hotels: []entity.Hotel{{ID: "c1", Name: "Marina Grand", City: "Chennai"}},
	}, nil
}

func (f *fakeHotelService) GetHotel(ctx context.Context, id string) (*entity.Hotel, error) {
	if id != "c1" {
		return nil, hotel.ErrHotelNotFound
	}
	return &entity.Hotel{ID: "c1", Name: "Marina Grand", City: "Chennai"}, nil
}

func (f *fakeHotelService) Refresh(ctx context.Context) error                 { return f.err }
func (f *fakeHotelService) Start(ctx context.Context, interval time.Duration) {}

func newTestApp(t *testing.T, svc *fakeHotelService) *fiber.App {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	mw := middleware.New(log)
	app := fiber.New(fiber.Config{StrictRouting: true, CaseSensitive: true})
	app.Use(mw.NewRequestIDMiddleware())
	New(log, validator.New(), mw, svc).Start(app.Group("/api/v1"))
	return app
}

func TestListHotels(t *testing.T) {
	svc := &fakeHotelService{}
	app := newTestApp(t, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/hotels?city=Chennai&max_price=5000", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body hotel.HotelListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Chennai", svc.lastQuery.City)
	assert.Equal(t, 5000.0, svc.lastQuery.MaxPrice)
}

func TestListHotelsRejectsNegativePrice(t *testing.T) {
	app := newTestApp(t, &fakeHotelService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/hotels?min_price=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListCities(t *testing.T) {
	app := newTestApp(t, &fakeHotelService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/hotels/cities", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body hotel.CitiesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Chennai", "Ooty"}, body.Cities)
}

func TestCatalogUnavailable(t *testing.T) {
	app := newTestApp(t, &fakeHotelService{err: hotel.ErrCatalogUnavailable})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/hotels/cities", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetHotel(t *testing.T) {
	app := newTestApp(t, &fakeHotelService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/hotels/c1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/hotels/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body handlerUtil.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "HOTEL_NOT_FOUND", body.Code)
}
