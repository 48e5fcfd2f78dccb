package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/service"
	"github.com/coachdesk/coachdesk-api/internal/store"
)

func newStudentRouter(t *testing.T) (*gin.Engine, *store.Stores) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores, err := store.Open(t.TempDir(), store.Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() }) //nolint:errcheck

	students := service.NewStudentService(stores.Students, validator.New(), zap.NewNop())
	h := NewStudentHandler(students, nil)

	r := gin.New()
	r.GET("/students", h.List)
	r.GET("/students/:id", h.Get)
	r.POST("/students", h.Create)
	return r, stores
}

func getPath(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStudentListNeverExposesPasswordHash(t *testing.T) {
	r, stores := newStudentRouter(t)

	// The seeded demo student carries a bcrypt hash in the store.
	require.NotEmpty(t, stores.Students.List()[0].PasswordHash)

	w := getPath(t, r, "/students")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestStudentGetNeverExposesPasswordHash(t *testing.T) {
	r, stores := newStudentRouter(t)
	seeded := stores.Students.List()[0]

	w := getPath(t, r, "/students/"+seeded.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestStudentCreateResponseOmitsPasswordHash(t *testing.T) {
	r, stores := newStudentRouter(t)

	w := postJSON(t, r, "/students", map[string]any{
		"name":            "Anita Rao",
		"email":           "anita@example.com",
		"phone":           "9876500000",
		"class":           "11",
		"register_number": "REG-2026-100",
		"password":        "changeme",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")

	// The persisted record still carries the hash for login.
	var created string
	for _, st := range stores.Students.List() {
		if st.RegisterNumber == "REG-2026-100" {
			created = st.PasswordHash
		}
	}
	assert.NotEmpty(t, created)
}
