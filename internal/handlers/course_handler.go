package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrail/bootcamp-api/internal/middleware"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/query"
)

var courseFilterFields = []string{
	"title", "weeks", "tuition", "minimumSkill", "scholarshipAvailable",
}

// populateBootcamp expands the bootcamp reference into its name and
// description on list results.
var populateBootcamp = query.Populate{
	Field:  "bootcamp",
	From:   "bootcamps",
	Select: []string{"name", "description"},
}

// GetCourses lists all courses, or the courses of one bootcamp when mounted
// under /bootcamps/:id/courses. The bootcamp-scoped form returns the full
// unpaginated set.
// GET /api/v1/courses
// GET /api/v1/bootcamps/:id/courses
func (h *Handler) GetCourses(c *gin.Context) {
	if c.Param("id") != "" {
		bootcampID, err := objectID(c, "id")
		if err != nil {
			h.fail(c, err)
			return
		}

		cursor, err := h.courses().Find(c.Request.Context(), bson.M{"bootcamp": bootcampID})
		if err != nil {
			h.fail(c, err)
			return
		}
		var courses []models.Course
		if err := cursor.All(c.Request.Context(), &courses); err != nil {
			h.fail(c, err)
			return
		}
		respondCount(c, len(courses), courses)
		return
	}

	opts := query.Parse(c.Request.URL.Query(), courseFilterFields, h.Cfg.DefaultPageLimit)
	result, err := opts.Run(c.Request.Context(), h.courses(), populateBootcamp)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondList(c, result)
}

// GetCourse returns a single course with its bootcamp's name and description
// embedded.
// GET /api/v1/courses/:id
func (h *Handler) GetCourse(c *gin.Context) {
	id, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()

	var course models.Course
	if err := h.courses().FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		h.fail(c, errNotFound("No course with the id of "+c.Param("id")))
		return
	}

	var bootcamp models.Bootcamp
	_ = h.bootcamps().FindOne(
		ctx,
		bson.M{"_id": course.Bootcamp},
		options.FindOne().SetProjection(bson.M{"name": 1, "description": 1}),
	).Decode(&bootcamp)

	respond(c, http.StatusOK, gin.H{
		"course": course,
		"bootcamp": gin.H{
			"id":          bootcamp.ID,
			"name":        bootcamp.Name,
			"description": bootcamp.Description,
		},
	})
}

type courseCreateRequest struct {
	Title                string  `json:"title" binding:"required"`
	Description          string  `json:"description" binding:"required"`
	Weeks                string  `json:"weeks" binding:"required"`
	Tuition              float64 `json:"tuition" binding:"required"`
	MinimumSkill         string  `json:"minimumSkill" binding:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// AddCourse creates a course under a bootcamp the caller owns and refreshes
// the bootcamp's average cost.
// POST /api/v1/bootcamps/:id/courses
func (h *Handler) AddCourse(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	bootcampID, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req courseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()

	var bootcamp models.Bootcamp
	if err := h.bootcamps().FindOne(ctx, bson.M{"_id": bootcampID}).Decode(&bootcamp); err != nil {
		h.fail(c, errNotFound("No bootcamp with the id of "+c.Param("id")))
		return
	}
	if !user.Owns(bootcamp.User) {
		h.fail(c, errForbidden("User "+user.ID.Hex()+" is not authorized to add a course to bootcamp "+bootcamp.ID.Hex()))
		return
	}

	course := models.Course{
		ID:                   primitive.NewObjectID(),
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		Bootcamp:             bootcampID,
		User:                 user.ID,
		CreatedAt:            time.Now(),
	}

	if _, err := h.courses().InsertOne(ctx, course); err != nil {
		h.fail(c, err)
		return
	}

	h.Aggregates.RecalcAverageCost(ctx, bootcampID)
	respond(c, http.StatusCreated, course)
}

type courseUpdateRequest struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Weeks                *string  `json:"weeks"`
	Tuition              *float64 `json:"tuition"`
	MinimumSkill         *string  `json:"minimumSkill" binding:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// UpdateCourse updates a course the caller owns; a tuition change refreshes
// the parent bootcamp's average cost.
// PUT /api/v1/courses/:id
func (h *Handler) UpdateCourse(c *gin.Context) {
	course, err := h.ownedCourse(c, "update")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Weeks != nil {
		set["weeks"] = *req.Weeks
	}
	if req.Tuition != nil {
		set["tuition"] = *req.Tuition
	}
	if req.MinimumSkill != nil {
		set["minimumSkill"] = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		set["scholarshipAvailable"] = *req.ScholarshipAvailable
	}
	if len(set) == 0 {
		h.fail(c, errBadRequest("No update fields provided"))
		return
	}

	ctx := c.Request.Context()

	var updated models.Course
	err = h.courses().FindOneAndUpdate(
		ctx,
		bson.M{"_id": course.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Tuition != nil {
		h.Aggregates.RecalcAverageCost(ctx, course.Bootcamp)
	}
	respond(c, http.StatusOK, updated)
}

// DeleteCourse removes a course the caller owns and refreshes the parent
// bootcamp's average cost.
// DELETE /api/v1/courses/:id
func (h *Handler) DeleteCourse(c *gin.Context) {
	course, err := h.ownedCourse(c, "delete")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.courses().DeleteOne(ctx, bson.M{"_id": course.ID}); err != nil {
		h.fail(c, err)
		return
	}

	h.Aggregates.RecalcAverageCost(ctx, course.Bootcamp)
	respond(c, http.StatusOK, gin.H{})
}

func (h *Handler) ownedCourse(c *gin.Context, action string) (*models.Course, error) {
	user, _ := middleware.CurrentUser(c)

	id, err := objectID(c, "id")
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := h.courses().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&course); err != nil {
		return nil, errNotFound("No course with the id of " + c.Param("id"))
	}
	if !user.Owns(course.User) {
		return nil, errForbidden("User " + user.ID.Hex() + " is not authorized to " + action + " course " + course.ID.Hex())
	}
	return &course, nil
}
