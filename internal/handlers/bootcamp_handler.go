package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrail/bootcamp-api/internal/middleware"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/query"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

// earthRadiusMiles converts a distance in miles to radians for $centerSphere.
const earthRadiusMiles = 3963.0

// Fields a bootcamp listing may filter on.
var bootcampFilterFields = []string{
	"name", "slug", "careers", "housing", "jobAssistance", "jobGuarantee",
	"acceptGi", "averageCost", "averageRating",
}

// GetBootcamps lists bootcamps with filtering, selection, sorting and
// pagination.
// GET /api/v1/bootcamps
func (h *Handler) GetBootcamps(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), bootcampFilterFields, h.Cfg.DefaultPageLimit)
	result, err := opts.Run(c.Request.Context(), h.bootcamps())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondList(c, result)
}

// GetBootcamp returns a single bootcamp.
// GET /api/v1/bootcamps/:id
func (h *Handler) GetBootcamp(c *gin.Context) {
	id, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var bootcamp models.Bootcamp
	if err := h.bootcamps().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&bootcamp); err != nil {
		h.fail(c, errNotFound("Bootcamp not found with id of "+c.Param("id")))
		return
	}
	respond(c, http.StatusOK, bootcamp)
}

// GetBootcampsInRadius lists bootcamps within distance miles of a zipcode's
// geocoded center point.
// GET /api/v1/bootcamps/radius/:zipcode/:distance
func (h *Handler) GetBootcampsInRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || distance <= 0 {
		h.fail(c, errBadRequest("Distance must be a positive number of miles"))
		return
	}

	loc, err := h.Geocoder.Geocode(c.Request.Context(), c.Param("zipcode"))
	if err != nil {
		h.fail(c, errBadRequest("Could not geocode zipcode "+c.Param("zipcode")))
		return
	}

	radius := distance / earthRadiusMiles
	filter := bson.M{"location.coordinates": bson.M{
		"$geoWithin": bson.M{"$centerSphere": []interface{}{loc.Coordinates, radius}},
	}}

	cursor, err := h.bootcamps().Find(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	var bootcamps []models.Bootcamp
	if err := cursor.All(c.Request.Context(), &bootcamps); err != nil {
		h.fail(c, err)
		return
	}
	respondCount(c, len(bootcamps), bootcamps)
}

type bootcampCreateRequest struct {
	Name          string   `json:"name" binding:"required,max=50"`
	Description   string   `json:"description" binding:"required,max=500"`
	Website       string   `json:"website" binding:"omitempty,url"`
	Phone         string   `json:"phone" binding:"omitempty,max=20"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address" binding:"required"`
	Careers       []string `json:"careers" binding:"required,min=1"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// CreateBootcamp creates a bootcamp owned by the authenticated publisher.
// A non-admin may publish at most one bootcamp.
// POST /api/v1/bootcamps
func (h *Handler) CreateBootcamp(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req bootcampCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}
	for _, career := range req.Careers {
		if !models.ValidCareer(career) {
			h.fail(c, errBadRequest("Invalid career: "+career))
			return
		}
	}

	ctx := c.Request.Context()

	if !user.IsAdmin() {
		err := h.bootcamps().FindOne(ctx, bson.M{"user": user.ID}).Err()
		if err == nil {
			h.fail(c, errBadRequest("The user with ID "+user.ID.Hex()+" has already published a bootcamp"))
			return
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.fail(c, err)
			return
		}
	}

	location, err := h.Geocoder.Geocode(ctx, req.Address)
	if err != nil {
		h.fail(c, errBadRequest("Could not geocode address"))
		return
	}

	bootcamp := models.Bootcamp{
		ID:            primitive.NewObjectID(),
		Name:          req.Name,
		Slug:          utils.Slugify(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Location:      location,
		Careers:       req.Careers,
		Photo:         models.DefaultPhoto,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		User:          user.ID,
		CreatedAt:     time.Now(),
	}

	if _, err := h.bootcamps().InsertOne(ctx, bootcamp); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, bootcamp)
}

type bootcampUpdateRequest struct {
	Name          *string   `json:"name" binding:"omitempty,max=50"`
	Description   *string   `json:"description" binding:"omitempty,max=500"`
	Website       *string   `json:"website" binding:"omitempty,url"`
	Phone         *string   `json:"phone" binding:"omitempty,max=20"`
	Email         *string   `json:"email" binding:"omitempty,email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGi      *bool     `json:"acceptGi"`
}

// UpdateBootcamp updates fields on a bootcamp the caller owns. Derived
// aggregates, the photo and the owner reference are not writable here; a
// name change refreshes the slug and an address change re-geocodes.
// PUT /api/v1/bootcamps/:id
func (h *Handler) UpdateBootcamp(c *gin.Context) {
	bootcamp, err := h.ownedBootcamp(c, "update")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req bootcampUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
		set["slug"] = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Website != nil {
		set["website"] = *req.Website
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Address != nil {
		location, err := h.Geocoder.Geocode(ctx, *req.Address)
		if err != nil {
			h.fail(c, errBadRequest("Could not geocode address"))
			return
		}
		set["address"] = *req.Address
		set["location"] = location
	}
	if req.Careers != nil {
		for _, career := range *req.Careers {
			if !models.ValidCareer(career) {
				h.fail(c, errBadRequest("Invalid career: "+career))
				return
			}
		}
		set["careers"] = *req.Careers
	}
	if req.Housing != nil {
		set["housing"] = *req.Housing
	}
	if req.JobAssistance != nil {
		set["jobAssistance"] = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		set["jobGuarantee"] = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		set["acceptGi"] = *req.AcceptGi
	}
	if len(set) == 0 {
		h.fail(c, errBadRequest("No update fields provided"))
		return
	}

	var updated models.Bootcamp
	err = h.bootcamps().FindOneAndUpdate(
		ctx,
		bson.M{"_id": bootcamp.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeleteBootcamp removes a bootcamp the caller owns and cascades the delete
// to all of its courses.
// DELETE /api/v1/bootcamps/:id
func (h *Handler) DeleteBootcamp(c *gin.Context) {
	bootcamp, err := h.ownedBootcamp(c, "delete")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.courses().DeleteMany(ctx, bson.M{"bootcamp": bootcamp.ID}); err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.bootcamps().DeleteOne(ctx, bson.M{"_id": bootcamp.ID}); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// UploadBootcampPhoto stores an image for a bootcamp the caller owns and
// patches the record with the stored filename.
// PUT /api/v1/bootcamps/:id/photo
func (h *Handler) UploadBootcampPhoto(c *gin.Context) {
	bootcamp, err := h.ownedBootcamp(c, "update")
	if err != nil {
		h.fail(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.fail(c, errBadRequest("Please upload a file"))
		return
	}

	name, err := h.Uploads.SavePhoto(file, bootcamp.ID.Hex())
	if err != nil {
		h.fail(c, err)
		return
	}

	_, err = h.bootcamps().UpdateByID(c.Request.Context(), bootcamp.ID, bson.M{"$set": bson.M{"photo": name}})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, name)
}

// ownedBootcamp loads the bootcamp in the :id path parameter and verifies the
// authenticated user may mutate it.
func (h *Handler) ownedBootcamp(c *gin.Context, action string) (*models.Bootcamp, error) {
	user, _ := middleware.CurrentUser(c)

	id, err := objectID(c, "id")
	if err != nil {
		return nil, err
	}

	var bootcamp models.Bootcamp
	if err := h.bootcamps().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&bootcamp); err != nil {
		return nil, errNotFound("Bootcamp not found with id of " + c.Param("id"))
	}
	if !user.Owns(bootcamp.User) {
		return nil, errForbidden("User " + user.ID.Hex() + " is not authorized to " + action + " this bootcamp")
	}
	return &bootcamp, nil
}
