package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrail/bootcamp-api/internal/query"
	"github.com/devtrail/bootcamp-api/internal/services"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestFailTranslation(t *testing.T) {
	h := &Handler{Log: zerolog.Nop()}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"api error passes through", errForbidden("nope"), http.StatusForbidden, "nope"},
		{"not found", errNotFound("Bootcamp not found"), http.StatusNotFound, "Bootcamp not found"},
		{"missing document", mongo.ErrNoDocuments, http.StatusNotFound, "Resource not found"},
		{
			"duplicate key",
			mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}},
			http.StatusBadRequest,
			"Duplicate field value entered",
		},
		{"empty upload", services.ErrEmptyUpload, http.StatusBadRequest, "Please upload a file"},
		{"non-image upload", services.ErrNotAnImage, http.StatusBadRequest, "Please upload an image file"},
		{"oversized upload", services.ErrFileTooBig, http.StatusBadRequest, "Uploaded image exceeds the size limit"},
		{"unknown error is opaque", errors.New("pq: secret detail"), http.StatusInternalServerError, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext()
			h.fail(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Error)
			assert.NotContains(t, w.Body.String(), "secret detail")
		})
	}
}

func TestRespondList(t *testing.T) {
	c, w := testContext()

	respondList(c, &query.Result{
		Count:      2,
		Pagination: query.Pagination{Next: &query.PageRef{Page: 2, Limit: 2}},
		Data:       nil,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	require.NotNil(t, env.Pagination)
	require.NotNil(t, env.Pagination.Next)
	assert.Equal(t, int64(2), env.Pagination.Next.Page)
	assert.Nil(t, env.Pagination.Prev)
}

func TestObjectIDParam(t *testing.T) {
	c, _ := testContext()
	c.Params = gin.Params{{Key: "id", Value: "not-a-hex-id"}}

	_, err := objectID(c, "id")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.status)
}
