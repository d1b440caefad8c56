package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NarendraPapasani/Dental-care-app/internal/config"
	"github.com/NarendraPapasani/Dental-care-app/internal/database"
	"github.com/NarendraPapasani/Dental-care-app/internal/handlers"
	"github.com/NarendraPapasani/Dental-care-app/internal/router"
	"github.com/NarendraPapasani/Dental-care-app/internal/storage"
)

// The tests below exercise the full stack against a real MongoDB. They
// skip unless TEST_MONGO_URI points at one, e.g.
//
//	TEST_MONGO_URI=mongodb://localhost:27017 go test ./internal/handlers/
type testEnv struct {
	r   *gin.Engine
	cfg *config.Config
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

var userSeq atomic.Int64

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping end-to-end tests")
	}

	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:           "0",
		Env:            "test",
		MongoURI:       uri,
		MongoDatabase:  fmt.Sprintf("dentacare_test_%d", time.Now().UnixNano()),
		JWTSecret:      "e2e-test-secret",
		JWTExpiry:      time.Hour,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 10 << 20,
		CORSOrigins:    []string{"http://localhost:3000"},
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	require.NoError(t, err)
	require.NoError(t, database.EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		db.Drop(ctx)
		db.Client().Disconnect(ctx)
	})

	store, err := storage.NewLocal(cfg.UploadDir)
	require.NoError(t, err)

	h := handlers.NewHandler(db, store, zerolog.Nop(), cfg)
	return &testEnv{r: router.New(cfg, h, zerolog.Nop()), cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var env envelope
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// signup registers a user and returns its token and id.
func (e *testEnv) signup(t *testing.T, role string) (token, id, email string) {
	t.Helper()
	n := userSeq.Add(1)
	email = fmt.Sprintf("user%d@example.com", n)
	w, env := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": fmt.Sprintf("user%d", n),
		"email":    email,
		"password": "password1",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, env.Token)

	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.User, &user))
	return env.Token, user.ID, email
}

func TestSignupRejectsDuplicates(t *testing.T) {
	e := newEnv(t)
	_, _, email := e.signup(t, "customer")

	w, env := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": "someoneelse",
		"email":    email,
		"password": "password1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "already exists")
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	e := newEnv(t)
	w, _ := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": "sneaky",
		"email":    "sneaky@example.com",
		"password": "password1",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	_, _, email := e.signup(t, "customer")

	w1, env1 := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": "wrong-password",
	})
	w2, env2 := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "password1",
	})

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, env1.Message, env2.Message)
}

func TestLoginIssuesWorkingToken(t *testing.T) {
	e := newEnv(t)
	_, _, email := e.signup(t, "customer")

	w, env := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, env.Token)

	w, _ = e.do(t, http.MethodGet, "/api/users/me", env.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAppointmentLifecycle(t *testing.T) {
	e := newEnv(t)
	customerTok, _, _ := e.signup(t, "customer")
	doctorTok, doctorID, _ := e.signup(t, "doctor")

	// Customer books with a valid dentist.
	w, env := e.do(t, http.MethodPost, "/api/appointments", customerTok, gin.H{
		"dentistId":       doctorID,
		"appointmentDate": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"timeSlot":        "10:00-10:30",
		"dentalIssue":     "molar pain",
		"painLevel":       7,
		"symptoms":        "throbbing when chewing",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var apt struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &apt))
	assert.Equal(t, "pending", apt.Status)

	// Dentist sees it in their list.
	w, env = e.do(t, http.MethodGet, "/api/appointments/dentist", doctorTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	assert.Contains(t, string(env.Data), `"status":"pending"`)

	// Dentist confirms.
	w, env = e.do(t, http.MethodPatch, "/api/appointments/"+apt.ID+"/status", doctorTok, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"status":"confirmed"`)

	// Both parties can read it back.
	w, env = e.do(t, http.MethodGet, "/api/appointments/"+apt.ID, customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"confirmed"`)
	assert.Contains(t, string(env.Data), "dentistInfo")
}

func TestAppointmentStatusGuards(t *testing.T) {
	e := newEnv(t)
	customerTok, _, _ := e.signup(t, "customer")
	doctorTok, doctorID, _ := e.signup(t, "doctor")
	strangerTok, _, _ := e.signup(t, "customer")

	w, env := e.do(t, http.MethodPost, "/api/appointments", customerTok, gin.H{
		"dentistId":       doctorID,
		"appointmentDate": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"timeSlot":        "09:00-09:30",
		"dentalIssue":     "chipped tooth",
		"painLevel":       3,
		"symptoms":        "sharp edge",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var apt struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &apt))
	statusPath := "/api/appointments/" + apt.ID + "/status"

	// Unknown status value.
	w, _ = e.do(t, http.MethodPatch, statusPath, doctorTok, gin.H{"status": "rescheduled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A third party, even authenticated, may not touch it.
	w, _ = e.do(t, http.MethodPatch, statusPath, strangerTok, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The patient cannot confirm their own booking.
	w, _ = e.do(t, http.MethodPatch, statusPath, customerTok, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Record unchanged by all of the above.
	w, env = e.do(t, http.MethodGet, "/api/appointments/"+apt.ID, customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"pending"`)

	// The patient may cancel while pending; the terminal state then freezes.
	w, _ = e.do(t, http.MethodPatch, statusPath, customerTok, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodPatch, statusPath, doctorTok, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentRequiresRealDentist(t *testing.T) {
	e := newEnv(t)
	customerTok, customerID, _ := e.signup(t, "customer")

	// A customer id is not a dentist.
	w, _ := e.do(t, http.MethodPost, "/api/appointments", customerTok, gin.H{
		"dentistId":       customerID,
		"appointmentDate": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"timeSlot":        "11:00-11:30",
		"dentalIssue":     "checkup",
		"painLevel":       1,
		"symptoms":        "none",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (e *testEnv) upload(t *testing.T, token, patientID, mime, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename="%s"`, filename))
	hdr.Set("Content-Type", mime)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, mw.WriteField("patientId", patientID))
	require.NoError(t, mw.WriteField("category", "report"))
	require.NoError(t, mw.WriteField("description", "post-op notes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestDocumentLifecycle(t *testing.T) {
	e := newEnv(t)
	customerTok, customerID, _ := e.signup(t, "customer")
	doctorTok, _, _ := e.signup(t, "doctor")
	strangerTok, _, _ := e.signup(t, "customer")

	pdf := []byte("%PDF-1.4\nfake report")
	w, env := e.upload(t, doctorTok, customerID, "application/pdf", "report.pdf", pdf)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc struct {
		ID      string `json:"id"`
		FileURL string `json:"fileUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	storedPath := filepath.Join(e.cfg.UploadDir, strings.TrimPrefix(doc.FileURL, "/uploads/"))
	_, err := os.Stat(storedPath)
	require.NoError(t, err, "uploaded file should be on disk")

	// Patient sees it.
	w, env = e.do(t, http.MethodGet, "/api/documents/patient", customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	// Outsider cannot download it.
	w, _ = e.do(t, http.MethodGet, "/api/documents/download/"+doc.ID, strangerTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Patient can.
	w, _ = e.do(t, http.MethodGet, "/api/documents/download/"+doc.ID, customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.pdf")
	assert.Equal(t, pdf, w.Body.Bytes())

	// Only the uploading dentist may delete.
	w, _ = e.do(t, http.MethodDelete, "/api/documents/"+doc.ID, customerTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = e.do(t, http.MethodDelete, "/api/documents/"+doc.ID, doctorTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Record and file are both gone.
	w, env = e.do(t, http.MethodGet, "/api/documents/patient", customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Count)
	_, err = os.Stat(storedPath)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRejectsBadType(t *testing.T) {
	e := newEnv(t)
	_, customerID, _ := e.signup(t, "customer")
	doctorTok, _, _ := e.signup(t, "doctor")

	w, _ := e.upload(t, doctorTok, customerID, "text/plain", "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No record was created.
	w, env := e.do(t, http.MethodGet, "/api/documents/dentist", doctorTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Count)
}

func TestUploadIsDoctorOnly(t *testing.T) {
	e := newEnv(t)
	customerTok, customerID, _ := e.signup(t, "customer")

	w, _ := e.upload(t, customerTok, customerID, "application/pdf", "x.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	e := newEnv(t)
	w, env := e.do(t, http.MethodGet, "/api/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "API endpoint not found", env.Message)
}

func TestProfileUpdateIgnoresRoleAndPassword(t *testing.T) {
	e := newEnv(t)
	customerTok, customerID, email := e.signup(t, "customer")

	// Unknown fields are dropped by the typed request struct; allowed
	// ones are applied.
	w, env := e.do(t, http.MethodPut, "/api/users/profile/"+customerID, customerTok, gin.H{
		"phone":          "555-0101",
		"medicalHistory": "asthma",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "555-0101")

	// Role/password-only payloads have nothing to apply.
	w, _ = e.do(t, http.MethodPut, "/api/users/profile/"+customerID, customerTok, gin.H{
		"role":     "doctor",
		"password": "escalated",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The old password still works, the role is unchanged.
	w, env = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.User), `"role":"customer"`)
}

func TestGetUsersByRole(t *testing.T) {
	e := newEnv(t)
	customerTok, _, _ := e.signup(t, "customer")
	e.signup(t, "doctor")
	e.signup(t, "doctor")

	w, env := e.do(t, http.MethodGet, "/api/users/role/doctor", customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *env.Count)

	w, _ = e.do(t, http.MethodGet, "/api/users/role/wizard", customerTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
