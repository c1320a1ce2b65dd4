package hotel

import "HotelAssistant/internal/entity"

type ListHotelsQuery struct {
	City     string  `query:"city" validate:"omitempty,max=80"`
	MinPrice float64 `query:"min_price" validate:"gte=0"`
	MaxPrice float64 `query:"max_price" validate:"gte=0"`
}

type HotelListResponse struct {
	City   string         `json:"city,omitempty"`
	Total  int            `json:"total"`
	Hotels []entity.Hotel `json:"hotels"`
}

type CitiesResponse struct {
	Cities []string `json:"cities"`
}
