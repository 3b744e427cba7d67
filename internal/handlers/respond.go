package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrail/bootcamp-api/internal/query"
	"github.com/devtrail/bootcamp-api/internal/services"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success    bool              `json:"success"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// apiError is a domain error carrying the HTTP status it should map to.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func errBadRequest(msg string) error   { return &apiError{http.StatusBadRequest, msg} }
func errUnauthorized(msg string) error { return &apiError{http.StatusUnauthorized, msg} }
func errForbidden(msg string) error    { return &apiError{http.StatusForbidden, msg} }
func errNotFound(msg string) error     { return &apiError{http.StatusNotFound, msg} }
func errServerError(msg string) error  { return &apiError{http.StatusInternalServerError, msg} }

// respond writes a success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// respondList writes a paginated listing envelope.
func respondList(c *gin.Context, result *query.Result) {
	pagination := result.Pagination
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Count:      &result.Count,
		Pagination: &pagination,
		Data:       result.Data,
	})
}

// respondCount writes an unpaginated listing envelope.
func respondCount(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// fail is the single error translator: every handler funnels failures here so
// nothing below the controller layer writes to the response. Driver errors
// are remapped to the public taxonomy; anything unrecognized becomes a
// generic 500 with the detail kept to server logs.
func (h *Handler) fail(c *gin.Context, err error) {
	var apiErr *apiError
	status, message := http.StatusInternalServerError, "Server Error"

	switch {
	case errors.As(err, &apiErr):
		status, message = apiErr.status, apiErr.message
	case errors.Is(err, mongo.ErrNoDocuments):
		status, message = http.StatusNotFound, "Resource not found"
	case mongo.IsDuplicateKeyError(err):
		status, message = http.StatusBadRequest, "Duplicate field value entered"
	case errors.Is(err, services.ErrEmptyUpload):
		status, message = http.StatusBadRequest, "Please upload a file"
	case errors.Is(err, services.ErrNotAnImage):
		status, message = http.StatusBadRequest, "Please upload an image file"
	case errors.Is(err, services.ErrFileTooBig):
		status, message = http.StatusBadRequest, "Uploaded image exceeds the size limit"
	}

	if status == http.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

// objectID parses a path parameter as an ObjectID; malformed identifiers are
// treated as not-found, matching the lookup that would have missed anyway.
func objectID(c *gin.Context, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, errNotFound("Resource not found with id of " + c.Param(param))
	}
	return id, nil
}
