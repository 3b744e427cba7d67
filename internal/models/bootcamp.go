package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Career values accepted on a bootcamp's careers list.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// ValidCareer reports whether c is one of the accepted career tags.
func ValidCareer(c string) bool {
	for _, known := range Careers {
		if c == known {
			return true
		}
	}
	return false
}

// Location is a GeoJSON point plus the structured address the geocoder
// resolved it from. Coordinates are [longitude, latitude].
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

type Bootcamp struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Address     string             `bson:"address" json:"address"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Careers     []string           `bson:"careers" json:"careers"`

	// Derived from child records, never writable through the API.
	AverageRating *float64 `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	AverageCost   *float64 `bson:"averageCost,omitempty" json:"averageCost,omitempty"`

	Photo         string             `bson:"photo" json:"photo"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi" json:"acceptGi"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// DefaultPhoto is stored until an image is uploaded for the bootcamp.
const DefaultPhoto = "no-photo.jpg"
