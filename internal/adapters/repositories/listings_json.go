package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"maps-extended-service/internal/domain"
)

type ListingSeed struct {
	Title    string         `json:"title"`
	Address  string         `json:"address"`
	PlaceID  string         `json:"place_id"`
	Position *domain.LatLng `json:"position"`
}

// ParseListings decodes and validates a JSON array of listings. Order is kept.
func ParseListings(data []byte) ([]domain.Listing, error) {
	var seeds []ListingSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse listings: parse json: %w", err)
	}

	listings := make([]domain.Listing, 0, len(seeds))
	for i, item := range seeds {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, fmt.Errorf("parse listings: item at index %d: title cannot be empty", i+1)
		}

		if item.Position == nil {
			return nil, fmt.Errorf("parse listings: item %q: position is required", title)
		}
		pos := *item.Position
		if pos.Lat < -90 || pos.Lat > 90 || pos.Lng < -180 || pos.Lng > 180 {
			return nil, fmt.Errorf("parse listings: item %q: position %s out of range", title, pos)
		}

		listings = append(listings, domain.Listing{
			Title:    title,
			Address:  strings.TrimSpace(item.Address),
			PlaceID:  strings.TrimSpace(item.PlaceID),
			Position: pos,
		})
	}

	return listings, nil
}

// LoadListings reads listings from a JSON file.
func LoadListings(jsonPath string) ([]domain.Listing, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load listings: read %q: %w", jsonPath, err)
	}
	return ParseListings(data)
}

// JSON-file implementation of the ListingRepository port. The file is read
// once at construction.
type JSONListingRepository struct {
	listings []domain.Listing
}

func NewJSONListingRepository(jsonPath string) (*JSONListingRepository, error) {
	if strings.TrimSpace(jsonPath) == "" {
		return nil, errors.New("json listing repository: path must not be empty")
	}

	listings, err := LoadListings(jsonPath)
	if err != nil {
		return nil, err
	}
	return &JSONListingRepository{listings: listings}, nil
}

func (r *JSONListingRepository) ListListings(ctx context.Context) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Listing, len(r.listings))
	copy(out, r.listings)
	return out, nil
}
