package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrail/bootcamp-api/internal/middleware"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/query"
)

var reviewFilterFields = []string{"title", "rating"}

// GetReviews lists all reviews, or one bootcamp's reviews when mounted under
// /bootcamps/:id/reviews.
// GET /api/v1/reviews
// GET /api/v1/bootcamps/:id/reviews
func (h *Handler) GetReviews(c *gin.Context) {
	if c.Param("id") != "" {
		bootcampID, err := objectID(c, "id")
		if err != nil {
			h.fail(c, err)
			return
		}

		cursor, err := h.reviews().Find(c.Request.Context(), bson.M{"bootcamp": bootcampID})
		if err != nil {
			h.fail(c, err)
			return
		}
		var reviews []models.Review
		if err := cursor.All(c.Request.Context(), &reviews); err != nil {
			h.fail(c, err)
			return
		}
		respondCount(c, len(reviews), reviews)
		return
	}

	opts := query.Parse(c.Request.URL.Query(), reviewFilterFields, h.Cfg.DefaultPageLimit)
	result, err := opts.Run(c.Request.Context(), h.reviews(), populateBootcamp)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondList(c, result)
}

// GetReview returns a single review with its bootcamp's name and description
// embedded.
// GET /api/v1/reviews/:id
func (h *Handler) GetReview(c *gin.Context) {
	id, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()

	var review models.Review
	if err := h.reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		h.fail(c, errNotFound("No review found with the id of "+c.Param("id")))
		return
	}

	var bootcamp models.Bootcamp
	_ = h.bootcamps().FindOne(
		ctx,
		bson.M{"_id": review.Bootcamp},
		options.FindOne().SetProjection(bson.M{"name": 1, "description": 1}),
	).Decode(&bootcamp)

	respond(c, http.StatusOK, gin.H{
		"review": review,
		"bootcamp": gin.H{
			"id":          bootcamp.ID,
			"name":        bootcamp.Name,
			"description": bootcamp.Description,
		},
	})
}

type reviewCreateRequest struct {
	Title  string `json:"title" binding:"required,max=100"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
}

// AddReview creates a review for a bootcamp and refreshes the bootcamp's
// average rating. One review per user per bootcamp, backed by a unique index.
// POST /api/v1/bootcamps/:id/reviews
func (h *Handler) AddReview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	bootcampID, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req reviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()

	if err := h.bootcamps().FindOne(ctx, bson.M{"_id": bootcampID}).Err(); err != nil {
		h.fail(c, errNotFound("No bootcamp with the id of "+c.Param("id")))
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		Title:     req.Title,
		Text:      req.Text,
		Rating:    req.Rating,
		Bootcamp:  bootcampID,
		User:      user.ID,
		CreatedAt: time.Now(),
	}

	if _, err := h.reviews().InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			h.fail(c, errBadRequest("You have already reviewed this bootcamp"))
			return
		}
		h.fail(c, err)
		return
	}

	h.Aggregates.RecalcAverageRating(ctx, bootcampID)
	respond(c, http.StatusCreated, review)
}

type reviewUpdateRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=100"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=10"`
}

// UpdateReview updates a review the caller owns; a rating change refreshes
// the bootcamp's average rating.
// PUT /api/v1/reviews/:id
func (h *Handler) UpdateReview(c *gin.Context) {
	review, err := h.ownedReview(c, "update")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Text != nil {
		set["text"] = *req.Text
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if len(set) == 0 {
		h.fail(c, errBadRequest("No update fields provided"))
		return
	}

	ctx := c.Request.Context()

	var updated models.Review
	err = h.reviews().FindOneAndUpdate(
		ctx,
		bson.M{"_id": review.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Rating != nil {
		h.Aggregates.RecalcAverageRating(ctx, review.Bootcamp)
	}
	respond(c, http.StatusOK, updated)
}

// DeleteReview removes a review the caller owns and refreshes the bootcamp's
// average rating.
// DELETE /api/v1/reviews/:id
func (h *Handler) DeleteReview(c *gin.Context) {
	review, err := h.ownedReview(c, "delete")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.reviews().DeleteOne(ctx, bson.M{"_id": review.ID}); err != nil {
		h.fail(c, err)
		return
	}

	h.Aggregates.RecalcAverageRating(ctx, review.Bootcamp)
	respond(c, http.StatusOK, gin.H{})
}

func (h *Handler) ownedReview(c *gin.Context, action string) (*models.Review, error) {
	user, _ := middleware.CurrentUser(c)

	id, err := objectID(c, "id")
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := h.reviews().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&review); err != nil {
		return nil, errNotFound("No review with the id of " + c.Param("id"))
	}
	if !user.Owns(review.User) {
		return nil, errForbidden("Not authorized to " + action + " review")
	}
	return &review, nil
}
