package hotel

import "HotelAssistant/pkg/response"

var (
	ErrHotelNotFound      = response.NewError(404, "hotel not found")
	ErrCatalogUnavailable = response.NewError(503, "hotel catalog unavailable")
)
