package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/query"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

// Admin-only user management. All routes here sit behind RequireAuth +
// RequireRoles(admin).

var userFilterFields = []string{"name", "email", "role"}

// GetUsers lists user accounts.
// GET /api/v1/users
func (h *Handler) GetUsers(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), userFilterFields, h.Cfg.DefaultPageLimit)
	result, err := opts.Run(c.Request.Context(), h.users())
	if err != nil {
		h.fail(c, err)
		return
	}
	// Never return credential material, whatever the select parameter says.
	for _, doc := range result.Data {
		delete(doc, "password")
		delete(doc, "resetPasswordToken")
		delete(doc, "resetPasswordExpire")
	}
	respondList(c, result)
}

// GetUser returns a single user account.
// GET /api/v1/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var user models.User
	if err := h.users().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&user); err != nil {
		h.fail(c, errNotFound("No user with the id of "+c.Param("id")))
		return
	}
	respond(c, http.StatusOK, user)
}

type adminCreateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role"`
}

// CreateUser creates an account with any role, including admin.
// POST /api/v1/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		h.fail(c, errBadRequest("Invalid role: "+string(role)))
		return
	}

	hashed, err := utils.HashPassword(req.Password, 10)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      role,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if _, err := h.users().InsertOne(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

type adminUpdateUserRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Role     *models.Role `json:"role"`
	Password *string      `json:"password" binding:"omitempty,min=6"`
}

// UpdateUser updates an account; a password change is rehashed.
// PUT /api/v1/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			h.fail(c, errBadRequest("Invalid role: "+string(*req.Role)))
			return
		}
		set["role"] = *req.Role
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password, 10)
		if err != nil {
			h.fail(c, err)
			return
		}
		set["password"] = hashed
	}
	if len(set) == 0 {
		h.fail(c, errBadRequest("No update fields provided"))
		return
	}

	var updated models.User
	err = h.users().FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeleteUser removes an account. Bootcamps, courses and reviews the user
// created keep their owner reference; there is no cascade for users.
// DELETE /api/v1/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := objectID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.users().DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.DeletedCount == 0 {
		h.fail(c, errNotFound("No user with the id of "+c.Param("id")))
		return
	}
	respond(c, http.StatusOK, gin.H{})
}
