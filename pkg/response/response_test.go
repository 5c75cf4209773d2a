package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	rec := httptest.NewRecorder()
	List[string](rec, nil, "ok")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":200,"success":true,"message":"ok","data":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	List(rec, []int{1, 2}, "ok")
	assert.JSONEq(t, `{"status":200,"success":true,"message":"ok","data":[1,2]}`, rec.Body.String())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "Invalid page", map[string]string{"page": "must be positive"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":400,"success":false,"message":"Invalid page","errors":{"page":"must be positive"}}`, rec.Body.String())
}
