package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"room-service/internal/model"
)

var ErrNotFound = errors.New("repository: not found")

// nearbyDegrees bounds coordinate searches to roughly 10 km around the point.
const nearbyDegrees = 0.1

type RoomRepository struct {
	DB *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{DB: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO rooms
            (id, host_id, large_building_type, building_type, room_type, is_set_up_for_guest,
             maximum_guest_count, bedroom_count, bed_count, bed_list, public_bed_list,
             bathroom_count, bathroom_type,
             country, city, district, street_address, detail_address, postcode, latitude, longitude,
             amenities, conveniences, photos, description, title, price, start_date, end_date,
             created_at, updated_at)
        VALUES
            (:id, :host_id, :large_building_type, :building_type, :room_type, :is_set_up_for_guest,
             :maximum_guest_count, :bedroom_count, :bed_count, :bed_list, :public_bed_list,
             :bathroom_count, :bathroom_type,
             :country, :city, :district, :street_address, :detail_address, :postcode, :latitude, :longitude,
             :amenities, :conveniences, :photos, :description, :title, :price, :start_date, :end_date,
             :created_at, :updated_at)
    `, room)
	if err != nil {
		return fmt.Errorf("RoomRepository.Create: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.DB.GetContext(ctx, &room, `SELECT * FROM rooms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("RoomRepository.GetByID: %w", err)
	}
	return &room, nil
}

// GetFiltered lists rooms newest first.
func (r *RoomRepository) GetFiltered(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
	query, args := filterQuery(f)

	var rooms []model.Room
	if err := r.DB.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("RoomRepository.GetFiltered: %w", err)
	}
	return rooms, nil
}

func filterQuery(f model.RoomFilter) (string, []any) {
	query := "SELECT * FROM rooms WHERE 1 = 1"
	args := []any{}
	idx := 1

	switch {
	case f.Latitude != nil && f.Longitude != nil:
		query += fmt.Sprintf(" AND latitude BETWEEN $%d AND $%d AND longitude BETWEEN $%d AND $%d", idx, idx+1, idx+2, idx+3)
		args = append(args,
			*f.Latitude-nearbyDegrees, *f.Latitude+nearbyDegrees,
			*f.Longitude-nearbyDegrees, *f.Longitude+nearbyDegrees)
		idx += 4
	case f.Location != "":
		query += fmt.Sprintf(" AND (country || ' ' || city || ' ' || district || ' ' || street_address) ILIKE $%d", idx)
		args = append(args, "%"+f.Location+"%")
		idx++
	}
	if f.Guests > 0 {
		query += fmt.Sprintf(" AND maximum_guest_count >= $%d", idx)
		args = append(args, f.Guests)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, f.Limit, f.Offset)
	return query, args
}
