package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/devtrail/bootcamp-api/internal/models"
)

// Geocoder resolves a free-form address or zipcode into coordinates and a
// structured address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

// ErrNoResults is returned when the provider finds no location for the input.
var ErrNoResults = errors.New("geocoder: no results for address")

// MapQuestGeocoder talks to the MapQuest geocoding API.
type MapQuestGeocoder struct {
	client *resty.Client
	apiKey string
}

// NewMapQuestGeocoder builds a geocoder against the given base URL
// (e.g. https://www.mapquestapi.com/geocoding/v1).
func NewMapQuestGeocoder(baseURL, apiKey string) *MapQuestGeocoder {
	return &MapQuestGeocoder{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
	}
}

type mapquestResponse struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			PostalCode string `json:"postalCode"`
			Country    string `json:"adminArea1"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (g *MapQuestGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	var out mapquestResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":      g.apiKey,
			"location": address,
		}).
		SetResult(&out).
		Get("/address")
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocoder responded %s", resp.Status())
	}
	if len(out.Results) == 0 || len(out.Results[0].Locations) == 0 {
		return nil, ErrNoResults
	}

	loc := out.Results[0].Locations[0]
	formatted := loc.Street
	if formatted != "" && loc.City != "" {
		formatted += ", " + loc.City
	} else if loc.City != "" {
		formatted = loc.City
	}

	return &models.Location{
		Type:             "Point",
		Coordinates:      []float64{loc.LatLng.Lng, loc.LatLng.Lat},
		FormattedAddress: formatted,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.PostalCode,
		Country:          loc.Country,
	}, nil
}
