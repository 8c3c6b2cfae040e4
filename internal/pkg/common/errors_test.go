package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorIsByCode(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrNoRecipeMatch.Wrap(errors.New("empty list")))

	assert.ErrorIs(t, wrapped, ErrNoRecipeMatch)
	assert.NotErrorIs(t, wrapped, ErrNoIngredients)
	assert.Contains(t, wrapped.Error(), "empty list")
}

func TestFromReason(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, FromReason("no-ingredients").Status)
	assert.Equal(t, http.StatusNotFound, FromReason("no-recipe-match").Status)
	assert.Equal(t, http.StatusBadGateway, FromReason("no-recipe-details").Status)
	assert.Equal(t, http.StatusBadGateway, FromReason("enrichment-failed").Status)
	assert.Equal(t, http.StatusInternalServerError, FromReason("").Status)
}

func TestWriteErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for name, tc := range map[string]struct {
		err     error
		debug   bool
		status  int
		code    string
		details string
	}{
		"custom with debug": {ErrJobNotReady.Wrap(errors.New("job is running")), true, http.StatusConflict, ErrCodeJobNotReady, "job is running"},
		"custom no debug":   {ErrJobNotReady.Wrap(errors.New("job is running")), false, http.StatusConflict, ErrCodeJobNotReady, ""},
		"plain error":       {errors.New("boom"), true, http.StatusInternalServerError, ErrCodeInternalError, "boom"},
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			WriteErrorResponse(c, tc.err, tc.debug)

			assert.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, ParseJSONBytes(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.details, resp.Details)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestBulletList(t *testing.T) {
	assert.Equal(t, "- a\n- b", BulletList([]string{" a ", "", "b"}))
	assert.Equal(t, "", BulletList(nil))
}

func TestParseJSONBytes(t *testing.T) {
	var v struct {
		Query string `json:"query"`
	}
	assert.NoError(t, ParseJSONBytes([]byte(`{"query":"x","extra":1}`), &v))
	assert.Error(t, ParseJSONBytes([]byte(`{"query":"x"} {}`), &v))
}
