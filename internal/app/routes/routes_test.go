package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/repositories"
	"github.com/yigit/studentcrm/internal/bootstrap"
	"github.com/yigit/studentcrm/internal/config"
	"github.com/yigit/studentcrm/internal/pkg/auth"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func testConfig(requireAuth bool) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Server.RequestTimeout = "5s"
	cfg.Server.RequireAuth = requireAuth
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Storage.Records.Driver = config.DriverMemory
	cfg.Storage.Documents.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "studentcrm-test"
	return cfg
}

func newRouter(t *testing.T, requireAuth bool) *gin.Engine {
	t.Helper()
	records := repositories.NewMemoryStore()
	records.Put(models.StudentProfilesTable.Name, models.Record{"Student_Id": "ABC", "Email_Id": "x@y.com"})
	records.Put(models.AddressesTable.Name, models.Record{"Student_Id": "ABC", "city": "Pune"})
	records.Put(models.PaymentsTable.Name, models.Record{"Student_Id": "ABC", "student_course_id": "C1"})
	records.Put(models.StipendsTable.Name, models.Record{"student_course_id": "C1", "partner_id": "P1", "fee_id": "F1"})
	records.Put(models.LoanPartnersTable.Name, models.Record{"partner_id": "P1"})
	records.Put(models.CourseFeesTable.Name, models.Record{"fee_id": "F1", "course_id": "CR1"})
	records.Put(models.CoursesTable.Name, models.Record{"course_id": "CR1", "Courses": "Contract Law"})

	stores := &bootstrap.Stores{
		Records:   records,
		Documents: repositories.NewMemoryStore(),
		Users:     repositories.NewMemoryUserRepository(),
	}
	cfg := testConfig(requireAuth)
	deps, err := bootstrap.BuildDependencies(cfg, stores, zerolog.Nop())
	require.NoError(t, err)
	return bootstrap.SetupRouter(cfg, deps, zerolog.Nop())
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var obj map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &obj)
	return w, obj
}

func errorCode(obj map[string]interface{}) interface{} {
	detail, _ := obj["error"].(map[string]interface{})
	return detail["code"]
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r := newRouter(t, false)

	w, obj := do(t, r, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RES_001", errorCode(obj))
	assert.Equal(t, false, obj["success"])

	w, obj = do(t, r, http.MethodDelete, "/api/student-profile", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "RES_004", errorCode(obj))
}

func TestHealth(t *testing.T) {
	w, obj := do(t, newRouter(t, true), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, _ := obj["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestStudentProfile(t *testing.T) {
	r := newRouter(t, false)

	w, obj := do(t, r, http.MethodGet, "/api/student-profile?studentId=ABC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	address, _ := obj["address"].(map[string]interface{})
	assert.Equal(t, "Pune", address["city"])

	w, _ = do(t, r, http.MethodGet, "/api/student-profile?studentId=ZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, obj = do(t, r, http.MethodGet, "/api/student-profile", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(obj))
}

func TestPaymentDetails(t *testing.T) {
	r := newRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payment-details?studentId=ABC", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Contract Law", rows[0]["courseName"])
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payment-details?studentId=ZZZ", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	r := newRouter(t, true)
	signup := map[string]string{
		"name":             "Asha",
		"email":            "asha@example.com",
		"password":         "s3cret!",
		"securityQuestion": "First school?",
		"securityAnswer":   "St. Mary",
	}

	w, obj := do(t, r, http.MethodPost, "/api/user/signup", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "User registered successfully", obj["message"])
	assert.NotContains(t, w.Body.String(), "s3cret!")

	w, obj = do(t, r, http.MethodPost, "/api/user/signup", signup)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_002", errorCode(obj))

	w, obj = do(t, r, http.MethodPost, "/api/user/login", map[string]string{"email": "asha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "AUTH_001", errorCode(obj))

	w, _ = do(t, r, http.MethodGet, "/api/student-profile?studentId=ABC", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, obj = do(t, r, http.MethodPost, "/api/user/login", map[string]string{"email": "asha@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := obj["token"].(string)
	require.NotEmpty(t, token)

	w, _ = do(t, r, http.MethodGet, "/api/student-profile?studentId=ABC", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/user/forgot-password", map[string]string{
		"email": "asha@example.com", "securityAnswer": "wrong", "newPassword": "another1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/user/forgot-password", map[string]string{
		"email": "asha@example.com", "securityAnswer": "St. Mary", "newPassword": "another1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = do(t, r, http.MethodPost, "/api/user/login", map[string]string{"email": "asha@example.com", "password": "another1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupValidation(t *testing.T) {
	w, obj := do(t, newRouter(t, false), http.MethodPost, "/api/user/signup", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(obj))
}

func TestResources(t *testing.T) {
	r := newRouter(t, false)

	w, obj := do(t, r, http.MethodPost, "/api/students", map[string]string{"Email_Id": "a@b.com", "Date": "15-03-2024"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, obj["_id"])

	w, obj = do(t, r, http.MethodPost, "/api/students", map[string]string{"Email_Id": "a@b.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_002", errorCode(obj))

	w, _ = do(t, r, http.MethodPost, "/api/students", map[string]string{"Name": "no email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "a@b.com", rows[0]["Email_Id"])
}

func TestPaymentDetails_PageBeyondEnd(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(t, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/payment-details?studentId=ABC&page=200000000000000000&size=50", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
}

func TestLongSecrets(t *testing.T) {
	r := newRouter(t, false)
	long := strings.Repeat("p", 73)

	w, obj := do(t, r, http.MethodPost, "/api/user/signup", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": long,
		"securityQuestion": "First school?", "securityAnswer": "St. Mary",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(obj))

	w, _ = do(t, r, http.MethodPost, "/api/user/signup", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "s3cret!",
		"securityQuestion": "First school?", "securityAnswer": "St. Mary",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, obj = do(t, r, http.MethodPost, "/api/user/forgot-password", map[string]string{
		"email": "asha@example.com", "securityAnswer": "St. Mary", "newPassword": long,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(obj))
}
