package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-agent-platform/internal/pkg/serverutils"
	"ai-agent-platform/internal/repository/memory"
	"ai-agent-platform/internal/service"
	"ai-agent-platform/pkg/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	universe := profile.NewUniverse([]string{"name", "email", "phone"})
	ranker := profile.NewRanker(nil, nil, universe, nil)
	manager := profile.NewManager(ranker, universe, memory.NewSessionRepository(), nil)
	svc := service.NewProfileService(manager, service.IndexInfo{Questions: universe.Len()}, time.Hour)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewProfileController(svc, nil, testSecret, nil).RegisterRoutes(app.Group("/api"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestProfileController_Flow(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/profile/v1/start", "", "")
	require.Equal(t, http.StatusOK, status)
	var started struct {
		SessionId string `json:"session_id"`
		Question  string `json:"question"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.Equal(t, "name", started.Question)

	submit := func(question, answer string) (int, envelope) {
		body, _ := json.Marshal(map[string]string{
			"session_id": started.SessionId,
			"question":   question,
			"answer":     answer,
		})
		return doJSON(t, app, http.MethodPost, "/api/profile/v1/submit", string(body), "")
	}

	status, env = submit("name", "Ada")
	require.Equal(t, http.StatusOK, status)
	var next struct {
		Status       string `json:"status"`
		NextQuestion string `json:"next_question"`
		Progress     string `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.Equal(t, "continue", next.Status)
	assert.Equal(t, "email", next.NextQuestion)
	assert.Equal(t, "1/3", next.Progress)

	status, env = submit("email", "not-an-email")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email format", env.Message)

	status, _ = submit("email", "ada@example.com")
	require.Equal(t, http.StatusOK, status)

	status, env = submit("phone", "+1 555 0100 22")
	require.Equal(t, http.StatusOK, status)
	var done struct {
		Status  string            `json:"status"`
		Profile map[string]string `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &done))
	assert.Equal(t, "complete", done.Status)
	assert.Len(t, done.Profile, 3)

	status, _ = submit("name", "Grace")
	assert.Equal(t, http.StatusConflict, status)

	status, env = doJSON(t, app, http.MethodGet, "/api/profile/v1/sessions/"+started.SessionId, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"state":"complete"`)
}

func TestProfileController_Errors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "unknown session", method: http.MethodPost, path: "/api/profile/v1/submit", body: `{"session_id":"nope","question":"name","answer":"Ada"}`, want: http.StatusNotFound},
		{name: "missing session id", method: http.MethodPost, path: "/api/profile/v1/submit", body: `{"question":"name","answer":"Ada"}`, want: http.StatusBadRequest},
		{name: "unknown session status", method: http.MethodGet, path: "/api/profile/v1/sessions/nope", want: http.StatusNotFound},
		{name: "admin without token", method: http.MethodGet, path: "/api/profile/v1/admin/stats", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.want, status)
			assert.False(t, env.Success)
		})
	}
}

func TestProfileController_Admin(t *testing.T) {
	app := newTestApp(t)
	admin := signToken(t, "admin")

	status, _ := doJSON(t, app, http.MethodGet, "/api/profile/v1/admin/stats", "", signToken(t, "user"))
	assert.Equal(t, http.StatusForbidden, status)

	_, _ = doJSON(t, app, http.MethodPost, "/api/profile/v1/start", "", "")

	status, env := doJSON(t, app, http.MethodGet, "/api/profile/v1/admin/stats", "", admin)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"active":1,"complete":0,"records":0,"questions":3,"index_dimension":0}`, string(env.Data))

	status, _ = doJSON(t, app, http.MethodPost, "/api/profile/v1/admin/evict", `{"older_than":"soon"}`, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	time.Sleep(5 * time.Millisecond)
	status, env = doJSON(t, app, http.MethodPost, "/api/profile/v1/admin/evict", `{"older_than":"1ms"}`, admin)
	require.Equal(t, http.StatusOK, status)
	var evicted struct {
		Evicted []string `json:"evicted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &evicted))
	assert.Len(t, evicted.Evicted, 1)
}
