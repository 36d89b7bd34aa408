package controllers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"cityfix-be/controllers"
	"cityfix-be/mailer"
	"cityfix-be/models"
	"cityfix-be/routes"
	"cityfix-be/store"
	"cityfix-be/utils"
)

const testBaseURL = "http://localhost:8080"

type testEnv struct {
	users   *store.FakeUserStore
	issues  *store.FakeIssueStore
	dones   *store.FakeDoneReportStore
	rejects *store.FakeRejectionStore
	blobs   *store.FakeBlobStore
	mail    *mailer.MockMailer
	router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:   store.NewFakeUserStore(),
		issues:  store.NewFakeIssueStore(),
		rejects: store.NewFakeRejectionStore(),
		blobs:   store.NewFakeBlobStore(),
		mail:    mailer.NewMockMailer(),
	}
	env.dones = store.NewFakeDoneReportStore(env.issues)

	authController := controllers.NewAuthController(env.users, env.issues)
	reportController := controllers.NewReportController(env.issues, env.users, env.blobs, env.mail, testBaseURL)
	maintenanceController := controllers.NewMaintenanceController(env.issues, env.users, env.dones, env.rejects, env.blobs)
	reviewController := controllers.NewReviewController(env.dones, env.issues, env.rejects, env.users, env.mail, testBaseURL)
	userController := controllers.NewUserController(env.users)
	uploadController := controllers.NewUploadController(env.blobs)

	env.router = gin.New()
	routes.AuthRoutes(env.router, authController)
	routes.ReportRoutes(env.router, reportController, reviewController, uploadController, nil, 20)
	routes.AdminRoutes(env.router, reportController, reviewController, userController, env.users)
	routes.MaintenanceRoutes(env.router, maintenanceController, env.users)

	return env
}

func (e *testEnv) addUser(t *testing.T, name, email, password string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, e.users.Create(context.Background(), &user))
	return user
}

func (e *testEnv) addIssue(t *testing.T, reporter string, status models.IssueStatus, assignee string) models.Issue {
	t.Helper()
	issue := models.Issue{
		ReporterEmail: reporter,
		Description:   "Broken lamp",
		CityStreet:    "Main St 1",
		Category:      "Electricity",
		Location:      models.Location{Lat: 10.0, Lng: 20.0},
		Status:        status,
		Timestamp:     time.Now().UTC(),
	}
	if assignee != "" {
		issue.AssignedTo = &assignee
		issue.MaintenanceEmail = &assignee
	}
	_, err := e.issues.Create(context.Background(), &issue)
	require.NoError(t, err)
	return issue
}

// token returns a session token for the given identity, as if it had
// logged in with that role.
func (e *testEnv) token(t *testing.T, email string, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateToken(email, role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	return e.do(t, http.MethodGet, path, token, nil)
}

func (e *testEnv) postForm(t *testing.T, path, token string, form url.Values) *httptest.ResponseRecorder {
	return e.do(t, http.MethodPost, path, token, form)
}

// postMultipart sends a multipart form with string fields and named file
// parts, the way a browser submits the report and completion forms.
func (e *testEnv) postMultipart(t *testing.T, path, token string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, data := range files {
		part, err := writer.CreateFormFile(field, field+".jpg")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// flashOf extracts the level and message queued in the flash cookie of a
// response, or empty strings when none was set.
func flashOf(t *testing.T, rr *httptest.ResponseRecorder) (level, message string) {
	t.Helper()
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name != utils.FlashCookie || cookie.Value == "" {
			continue
		}
		decoded, err := url.QueryUnescape(cookie.Value)
		require.NoError(t, err)
		parts := strings.SplitN(decoded, "|", 2)
		require.Len(t, parts, 2)
		return parts[0], parts[1]
	}
	return "", ""
}

func sessionCookieOf(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == utils.SessionCookie {
			return cookie
		}
	}
	return nil
}
