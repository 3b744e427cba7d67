package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapquestBody = `{
	"results": [{
		"locations": [{
			"street": "233 Bay State Rd",
			"adminArea5": "Boston",
			"adminArea3": "MA",
			"postalCode": "02215",
			"adminArea1": "US",
			"latLng": {"lat": 42.3497, "lng": -71.1041}
		}]
	}]
}`

func TestMapQuestGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "02215", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mapquestBody))
	}))
	defer srv.Close()

	g := NewMapQuestGeocoder(srv.URL, "test-key")
	loc, err := g.Geocode(context.Background(), "02215")
	require.NoError(t, err)

	assert.Equal(t, "Point", loc.Type)
	assert.Equal(t, []float64{-71.1041, 42.3497}, loc.Coordinates, "GeoJSON order is lng, lat")
	assert.Equal(t, "Boston", loc.City)
	assert.Equal(t, "02215", loc.Zipcode)
	assert.Equal(t, "233 Bay State Rd, Boston", loc.FormattedAddress)
}

func TestMapQuestGeocoderNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	g := NewMapQuestGeocoder(srv.URL, "test-key")
	_, err := g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestMapQuestGeocoderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewMapQuestGeocoder(srv.URL, "test-key")
	_, err := g.Geocode(context.Background(), "02215")
	assert.Error(t, err)
}
