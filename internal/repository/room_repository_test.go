package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"room-service/internal/model"
)

func TestFilterQuery(t *testing.T) {
	lat, lng := 37.5, 127.0

	tests := []struct {
		name      string
		filter    model.RoomFilter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			filter:    model.RoomFilter{Limit: 20},
			wantQuery: "SELECT * FROM rooms WHERE 1 = 1 ORDER BY created_at DESC LIMIT $1 OFFSET $2",
			wantArgs:  []any{20, 0},
		},
		{
			name:   "location and guests",
			filter: model.RoomFilter{Location: "서울", Guests: 3, Limit: 10, Offset: 10},
			wantQuery: "SELECT * FROM rooms WHERE 1 = 1" +
				" AND (country || ' ' || city || ' ' || district || ' ' || street_address) ILIKE $1" +
				" AND maximum_guest_count >= $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4",
			wantArgs: []any{"%서울%", 3, 10, 10},
		},
		{
			name:   "coordinates win over location",
			filter: model.RoomFilter{Location: "서울", Latitude: &lat, Longitude: &lng, Limit: 5},
			wantQuery: "SELECT * FROM rooms WHERE 1 = 1" +
				" AND latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4" +
				" ORDER BY created_at DESC LIMIT $5 OFFSET $6",
			wantArgs: []any{lat - nearbyDegrees, lat + nearbyDegrees, lng - nearbyDegrees, lng + nearbyDegrees, 5, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := filterQuery(tt.filter)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
