package services

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AggregateService recomputes the derived averages a bootcamp caches from its
// child records. Controllers call it explicitly after a course or review is
// created or removed; it is best-effort and never fails the triggering
// operation, so every method logs and swallows its errors.
type AggregateService struct {
	db  *mongo.Database
	log zerolog.Logger
}

func NewAggregateService(db *mongo.Database, log zerolog.Logger) *AggregateService {
	return &AggregateService{db: db, log: log}
}

// RecalcAverageCost refreshes a bootcamp's averageCost from the tuition of all
// surviving courses. The value is rounded up to the nearest 10; with no
// courses left the field is removed.
func (s *AggregateService) RecalcAverageCost(ctx context.Context, bootcampID primitive.ObjectID) {
	avg, found, err := s.average(ctx, "courses", "tuition", bootcampID)
	if err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("recalculating average cost")
		return
	}
	if found {
		avg = RoundCostToTen(avg)
	}
	s.write(ctx, bootcampID, "averageCost", avg, found)
}

// RecalcAverageRating refreshes a bootcamp's averageRating from all surviving
// reviews; with no reviews left the field is removed.
func (s *AggregateService) RecalcAverageRating(ctx context.Context, bootcampID primitive.ObjectID) {
	avg, found, err := s.average(ctx, "reviews", "rating", bootcampID)
	if err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("recalculating average rating")
		return
	}
	s.write(ctx, bootcampID, "averageRating", avg, found)
}

// average runs the $match/$group pipeline over the child collection and
// returns the mean of field across the bootcamp's children. found is false
// when the bootcamp has no children.
func (s *AggregateService) average(ctx context.Context, collection, field string, bootcampID primitive.ObjectID) (float64, bool, error) {
	pipeline := AveragePipeline(field, bootcampID)
	cursor, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Average, true, nil
}

func (s *AggregateService) write(ctx context.Context, bootcampID primitive.ObjectID, field string, value float64, found bool) {
	var update bson.M
	if found {
		update = bson.M{"$set": bson.M{field: value}}
	} else {
		update = bson.M{"$unset": bson.M{field: ""}}
	}
	if _, err := s.db.Collection("bootcamps").UpdateByID(ctx, bootcampID, update); err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Str("field", field).Msg("writing derived aggregate")
	}
}

// AveragePipeline groups a bootcamp's child documents and averages field.
func AveragePipeline(field string, bootcampID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$bootcamp",
			"average": bson.M{"$avg": "$" + field},
		}}},
	}
}

// RoundCostToTen is the rounding applied to averageCost before it is stored.
func RoundCostToTen(avg float64) float64 {
	return math.Ceil(avg/10) * 10
}
