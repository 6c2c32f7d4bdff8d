package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/userauth/internal/errors"
)

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "not found error",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "user not found"),
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "conflict error",
			err:            apperrors.Wrap(apperrors.ErrConflict, "user already exists"),
			expectedStatus: http.StatusConflict,
			expectedError:  "conflict",
		},
		{
			name:           "invalid input error",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "email is required"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "invalid_input",
		},
		{
			name:           "unauthorized error",
			err:            apperrors.Wrap(apperrors.ErrUnauthorized, "token expired"),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "unauthorized",
		},
		{
			name:           "forbidden error",
			err:            apperrors.Wrap(apperrors.ErrForbidden, "role not allowed"),
			expectedStatus: http.StatusForbidden,
			expectedError:  "forbidden",
		},
		{
			name:           "unknown error",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, recorder.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedError, resp.Error)
		})
	}

	t.Run("unauthorized message leaks no token detail", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "signature mismatch under access key"), nil)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Message, "signature")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		HandleErrorGin(c, nil, nil)
		assert.Empty(t, recorder.Body.String())
	})
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func(query string) *gin.Context {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/users"+query, nil)
		return c
	}

	t.Run("defaults", func(t *testing.T) {
		offset, limit, err := ParsePagination(newContext(""))
		assert.NoError(t, err)
		assert.Equal(t, 0, offset)
		assert.Equal(t, 50, limit)
	})

	t.Run("custom values", func(t *testing.T) {
		offset, limit, err := ParsePagination(newContext("?offset=10&limit=20"))
		assert.NoError(t, err)
		assert.Equal(t, 10, offset)
		assert.Equal(t, 20, limit)
	})

	t.Run("negative offset", func(t *testing.T) {
		_, _, err := ParsePagination(newContext("?offset=-1"))
		assert.Error(t, err)
	})

	t.Run("limit above maximum", func(t *testing.T) {
		_, _, err := ParsePagination(newContext("?limit=101"))
		assert.Error(t, err)
	})
}
