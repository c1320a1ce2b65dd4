package hotelRepository

import (
	"database/sql"
	"errors"

	"HotelAssistant/internal/api/hotel"
	"HotelAssistant/internal/entity"
	contextPkg "HotelAssistant/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type HotelDB struct {
	ID            sql.NullString  `db:"id"`
	Name          sql.NullString  `db:"name"`
	City          sql.NullString  `db:"city"`
	Country       sql.NullString  `db:"country"`
	Address       sql.NullString  `db:"address"`
	Description   sql.NullString  `db:"description"`
	PricePerNight sql.NullFloat64 `db:"price_per_night"`
	Rating        sql.NullFloat64 `db:"rating"`
	StarRating    sql.NullInt64   `db:"star_rating"`
	Amenities     pq.StringArray  `db:"amenities"`
	ImageURL      sql.NullString  `db:"image_url"`
}

type RoomDB struct {
	ID            sql.NullString  `db:"id"`
	HotelID       sql.NullString  `db:"hotel_id"`
	Type          sql.NullString  `db:"type"`
	PricePerNight sql.NullFloat64 `db:"price_per_night"`
	MaxGuests     sql.NullInt64   `db:"max_guests"`
}

func (r *hotelRepository) GetHotels(ctx context.Context) ([]entity.Hotel, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var hotelsDB []HotelDB

	if err := r.q.SelectContext(ctx, &hotelsDB, queryGetHotels); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHotels execution err")
		return nil, err
	}

	hotels := make([]entity.Hotel, 0, len(hotelsDB))
	for _, h := range hotelsDB {
		hotels = append(hotels, r.makeHotel(h))
	}
	return hotels, nil
}

func (r *hotelRepository) GetHotelByID(ctx context.Context, id string) (entity.Hotel, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var hotelDB HotelDB

	query, args, err := sqlx.Named(queryGetHotelByID, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHotelByID named query preparation err")
		return entity.Hotel{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&hotelDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Hotel{}, hotel.ErrHotelNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHotelByID execution err")
		return entity.Hotel{}, err
	}

	return r.makeHotel(hotelDB), nil
}

func (r *hotelRepository) GetRooms(ctx context.Context) ([]entity.Room, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var roomsDB []RoomDB

	if err := r.q.SelectContext(ctx, &roomsDB, queryGetRooms); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRooms execution err")
		return nil, err
	}

	return r.makeRooms(roomsDB), nil
}

func (r *hotelRepository) GetRoomsByHotelID(ctx context.Context, hotelID string) ([]entity.Room, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var roomsDB []RoomDB

	query, args, err := sqlx.Named(queryGetRoomsByHotelID, map[string]interface{}{
		"hotel_id": hotelID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRoomsByHotelID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &roomsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRoomsByHotelID execution err")
		return nil, err
	}

	return r.makeRooms(roomsDB), nil
}

func (r *hotelRepository) makeHotel(h HotelDB) entity.Hotel {
	amenities := h.Amenities
	if amenities == nil {
		amenities = pq.StringArray{}
	}
	return entity.Hotel{
		ID:            h.ID.String,
		Name:          h.Name.String,
		City:          h.City.String,
		Country:       h.Country.String,
		Address:       h.Address.String,
		Description:   h.Description.String,
		PricePerNight: h.PricePerNight.Float64,
		Rating:        h.Rating.Float64,
		StarRating:    int(h.StarRating.Int64),
		Amenities:     amenities,
		ImageURL:      h.ImageURL.String,
	}
}

func (r *hotelRepository) makeRooms(rows []RoomDB) []entity.Room {
	rooms := make([]entity.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, entity.Room{
			ID:            row.ID.String,
			HotelID:       row.HotelID.String,
			Type:          row.Type.String,
			PricePerNight: row.PricePerNight.Float64,
			MaxGuests:     int(row.MaxGuests.Int64),
		})
	}
	return rooms
}
