package hotelRepository

const (
	queryGetHotels = `
		SELECT
			id, name, city, country, address, description,
			price_per_night, rating, star_rating, amenities, image_url
		FROM hotels
		WHERE is_active = true
		ORDER BY rating DESC, name
	`

	queryGetHotelByID = `
		SELECT
			id, name, city, country, address, description,
			price_per_night, rating, star_rating, amenities, image_url
		FROM hotels
		WHERE id = :id AND is_active = true
	`

	queryGetRooms = `
		SELECT
			r.id, r.hotel_id, r.type, r.price_per_night, r.max_guests
		FROM rooms r
		JOIN hotels h ON h.id = r.hotel_id
		WHERE h.is_active = true
		ORDER BY r.hotel_id, r.price_per_night
	`

	queryGetRoomsByHotelID = `
		SELECT
			id, hotel_id, type, price_per_night, max_guests
		FROM rooms
		WHERE hotel_id = :hotel_id
		ORDER BY price_per_night
	`
)
