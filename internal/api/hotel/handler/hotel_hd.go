package hotelHandler

import (
	"time"

	"HotelAssistant/internal/api/hotel"
	contextPkg "HotelAssistant/pkg/context"
	"HotelAssistant/pkg/handlerUtil"
	"HotelAssistant/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *HotelHandler) ListHotels(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var query hotel.ListHotelsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"city":       query.City,
	}).Debug("Listing hotels")

	res, err := h.hotelService.HotelsInCity(c, query)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_hotels")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *HotelHandler) ListCities(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	cities, err := h.hotelService.ListCities(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_cities")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, hotel.CitiesResponse{Cities: cities})
	}
}

func (h *HotelHandler) GetHotel(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.hotelService.GetHotel(c, ctx.Params("hotel_id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_hotel")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
