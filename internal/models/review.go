package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 10
)

// A unique index on (bootcamp, user) keeps each user to one review per
// bootcamp; see db.EnsureIndexes.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
