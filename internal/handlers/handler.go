package handlers

import (
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/services"
)

// Handler carries the database handle and the services the route handlers
// orchestrate. All handlers are methods on this struct.
type Handler struct {
	DB         *mongo.Database
	Cfg        *config.Config
	Geocoder   services.Geocoder
	Mailer     services.Mailer
	Aggregates *services.AggregateService
	Uploads    *services.UploadService
	Log        zerolog.Logger
}

func NewHandler(db *mongo.Database, cfg *config.Config, geocoder services.Geocoder, mailer services.Mailer, aggregates *services.AggregateService, uploads *services.UploadService, log zerolog.Logger) *Handler {
	return &Handler{
		DB:         db,
		Cfg:        cfg,
		Geocoder:   geocoder,
		Mailer:     mailer,
		Aggregates: aggregates,
		Uploads:    uploads,
		Log:        log,
	}
}

func (h *Handler) bootcamps() *mongo.Collection { return h.DB.Collection("bootcamps") }
func (h *Handler) courses() *mongo.Collection   { return h.DB.Collection("courses") }
func (h *Handler) reviews() *mongo.Collection   { return h.DB.Collection("reviews") }
func (h *Handler) users() *mongo.Collection     { return h.DB.Collection("users") }
