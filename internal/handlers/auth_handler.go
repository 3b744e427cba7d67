package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrail/bootcamp-api/internal/middleware"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type registerRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role"`
}

// Register creates an account and signs the new user in.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	// Admin accounts come from the seeder or another admin, never from
	// self-registration.
	if role != models.RoleUser && role != models.RolePublisher {
		h.fail(c, errBadRequest("Role must be user or publisher"))
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
		if mongo.IsDuplicateKeyError(err) {
			h.fail(c, errBadRequest("An account with this email already exists"))
			return
		}
		h.fail(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusCreated, &user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest("Please provide an email and password"))
		return
	}

	var user models.User
	err := h.users().FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		h.fail(c, errUnauthorized("Invalid credentials"))
		return
	}

	h.sendTokenResponse(c, http.StatusOK, &user)
}

// Logout clears the auth cookie.
// GET /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", h.Cfg.IsProduction(), true)
	respond(c, http.StatusOK, gin.H{})
}

// GetMe returns the authenticated user.
// GET /api/v1/auth/me
func (h *Handler) GetMe(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	respond(c, http.StatusOK, user)
}

type updateDetailsRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UpdateDetails changes the authenticated user's name and/or email.
// PUT /api/v1/auth/updatedetails
func (h *Handler) UpdateDetails(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req updateDetailsRequest
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
	if len(set) == 0 {
		h.fail(c, errBadRequest("No update fields provided"))
		return
	}

	var updated models.User
	err := h.users().FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, updated)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword changes the authenticated user's password after checking the
// current one, then issues a fresh token.
// PUT /api/v1/auth/updatepassword
func (h *Handler) UpdatePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		h.fail(c, errUnauthorized("Password is incorrect"))
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword, 10)
	if err != nil {
		h.fail(c, err)
		return
	}

	_, err = h.users().UpdateByID(c.Request.Context(), user.ID, bson.M{"$set": bson.M{"password": hashed}})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword stores a hashed reset token on the user and emails the raw
// token. If the email cannot be sent the token is cleared again so a stale
// hash never lingers.
// POST /api/v1/auth/forgotpassword
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		h.fail(c, errNotFound("There is no user with that email"))
		return
	}

	raw, hashed, err := utils.NewResetToken()
	if err != nil {
		h.fail(c, err)
		return
	}

	expire := time.Now().Add(h.Cfg.ResetTokenExpire)
	_, err = h.users().UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": expire,
	}})
	if err != nil {
		h.fail(c, err)
		return
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", scheme(c), c.Request.Host, raw)
	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s",
		resetURL,
	)

	if err := h.Mailer.Send(ctx, user.Email, "Password reset token", body); err != nil {
		h.Log.Error().Err(err).Str("email", user.Email).Msg("sending reset email")
		_, _ = h.users().UpdateByID(ctx, user.ID, bson.M{"$unset": bson.M{
			"resetPasswordToken":  "",
			"resetPasswordExpire": "",
		}})
		h.fail(c, errServerError("Email could not be sent"))
		return
	}

	respond(c, http.StatusOK, "Email sent")
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword consumes a reset token and sets a new password. The stored
// hash and expiry are cleared in the same update, so a token works only once.
// PUT /api/v1/auth/resetpassword/:resettoken
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadRequest(err.Error()))
		return
	}

	hashedToken := utils.HashResetToken(c.Param("resettoken"))

	ctx := c.Request.Context()

	var user models.User
	err := h.users().FindOne(ctx, bson.M{
		"resetPasswordToken":  hashedToken,
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		h.fail(c, errBadRequest("Invalid token"))
		return
	}

	hashed, err := utils.HashPassword(req.Password, 10)
	if err != nil {
		h.fail(c, err)
		return
	}

	_, err = h.users().UpdateByID(ctx, user.ID, bson.M{
		"$set":   bson.M{"password": hashed},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendTokenResponse(c, http.StatusOK, &user)
}

// sendTokenResponse issues the JWT and returns it both as a JSON field and as
// an HTTP-only cookie. The cookie is marked secure in production only.
func (h *Handler) sendTokenResponse(c *gin.Context, status int, user *models.User) {
	token, err := utils.GenerateJWT(h.Cfg.JWTSecret, user.ID.Hex(), user.Role, h.Cfg.JWTExpire)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.SetCookie("token", token, int(h.Cfg.JWTCookieExpire.Seconds()), "/", "", h.Cfg.IsProduction(), true)
	c.JSON(status, gin.H{"success": true, "token": token})
}

func scheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
