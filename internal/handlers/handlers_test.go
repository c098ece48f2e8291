package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/postcraft/backend/internal/auth"
	"github.com/anonto42/postcraft/backend/internal/cache"
	"github.com/anonto42/postcraft/backend/internal/middleware"
	"github.com/anonto42/postcraft/backend/internal/repositories/repotest"
	"github.com/anonto42/postcraft/backend/internal/services"
	"github.com/anonto42/postcraft/backend/internal/suggest"
	"github.com/anonto42/postcraft/backend/internal/validators"
	"github.com/anonto42/postcraft/backend/pkg/logger"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	text string
	err  error
}

func (s *stubCompleter) Complete(context.Context, string) (string, error) {
	return s.text, s.err
}

type testServer struct {
	e         *echo.Echo
	completer *stubCompleter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Discard()
	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler(log)

	users, posts := repotest.NewUsers(), repotest.NewPosts()
	tokens := auth.NewTokenManager("handler-secret", time.Hour)
	profileCache := cache.NewProfileCache(nil, time.Minute, log)
	completer := &stubCompleter{}

	api := e.Group("/api")
	NewAuthHandler(services.NewAuthService(users, posts, tokens, "https://avatar.example/public", log),
		tokens, auth.NewCookieManager(false), nil, log).RegisterAuthRoutes(api.Group("/auth"))
	NewSuggestionHandler(suggest.NewService(completer, log), log).RegisterSuggestionRoutes(api.Group("/openai"))

	session := middleware.JWTAuthMiddleware(tokens)
	NewUserHandler(services.NewProfileService(users, posts, profileCache, log), log).
		RegisterProfileRoutes(api.Group("/profile", session))
	NewPostHandler(services.NewPostService(posts, profileCache, log), log).
		RegisterPostRoutes(api.Group("/posts", session))

	return &testServer{e: e, completer: completer}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"username":"ann","email":"`+email+`","password":"secret1","gender":"girl"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func (s *testServer) createPost(t *testing.T, token, body string) map[string]any {
	t.Helper()
	rec, out := s.do(t, http.MethodPost, "/api/posts", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["post"].(map[string]any)
}

func TestSignupResponse(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"username":"ann","email":"Ann@X.com","password":"secret1","gender":"girl"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@x.com", user["email"])
	assert.Equal(t, "https://avatar.example/public/girl", user["profilePic"])
	assert.Equal(t, []any{}, user["uploadedPosts"])
	assert.Equal(t, []any{}, user["scheduledPosts"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, body["token"], cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSignupErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "ann@x.com")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"duplicate email", `{"username":"ann2","email":"ANN@x.com","password":"secret1","gender":"girl"}`, http.StatusConflict, "User already exists"},
		{"short password", `{"username":"bob","email":"bob@x.com","password":"123","gender":"boy"}`, http.StatusBadRequest, "password must be at least 6 characters long"},
		{"bad email", `{"username":"bob","email":"nope","password":"secret1","gender":"boy"}`, http.StatusBadRequest, "Please provide a valid email address"},
		{"malformed json", `{"username":`, http.StatusBadRequest, "Invalid request payload"},
		{"padded short username", `{"username":"  ab  ","email":"cy@x.com","password":"secret1","gender":"boy"}`, http.StatusBadRequest, "username must be at least 3 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.do(t, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, true, body["error"])
			assert.Equal(t, float64(tt.wantStatus), body["statusCode"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "ann@x.com")

	rec, body := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ghost@x.com","password":"secret1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["message"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ann@x.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password", body["message"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ann@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged in successfully", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.NotNil(t, body["user"].(map[string]any)["lastLogin"])
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/auth/logout", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User logged out successfully", body["message"])
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestFirebaseRouteNeedsVerifier(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/auth/firebase", "", `{"idToken":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/posts", "not-a-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid or expired token", body["message"])
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "ann@x.com")

	rec, body := s.do(t, http.MethodGet, "/api/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann", body["user"].(map[string]any)["username"])

	rec, body = s.do(t, http.MethodPut, "/api/profile", token, `{"bio":"  hello  ","website":"ann.dev"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := body["user"].(map[string]any)
	assert.Equal(t, "hello", user["bio"])
	assert.Equal(t, "ann.dev", user["website"])

	rec, body = s.do(t, http.MethodPut, "/api/profile", token, `{"username":"  ab  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username must be at least 3 characters long", body["message"])

	rec, body = s.do(t, http.MethodPut, "/api/profile", token, `{"website":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, body["user"].(map[string]any)["website"])

	rec, body = s.do(t, http.MethodPut, "/api/profile", token, `{"website":"not a site"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please enter a valid website URL", body["message"])

	rec, body = s.do(t, http.MethodPut, "/api/profile/socials", token,
		`{"instagram":"https://instagram.com/ann","twitter":"https://x.com/ann"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	socials := body["user"].(map[string]any)["socials"].(map[string]any)
	assert.Equal(t, "https://instagram.com/ann", socials["instagram"])

	rec, body = s.do(t, http.MethodDelete, "/api/profile/socials", token, `{"platform":"Instagram"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	socials = body["user"].(map[string]any)["socials"].(map[string]any)
	assert.Empty(t, socials["instagram"])
	assert.Equal(t, "https://x.com/ann", socials["twitter"])

	rec, body = s.do(t, http.MethodDelete, "/api/profile/socials?platform=myspace", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid platform", body["message"])
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "ann@x.com")

	scheduled := s.createPost(t, token, `{
		"title":"Launch","description":"We launch tomorrow",
		"tags":"launch, product","socialMedia":["Instagram","twitter"],
		"category":"marketing","isScheduled":"true","scheduledAt":"2026-12-24T09:00:00Z"}`)
	assert.Equal(t, true, scheduled["isScheduled"])
	assert.Equal(t, false, scheduled["isPosted"])
	assert.Equal(t, "2026-12-24T09:00:00Z", scheduled["scheduledAt"])
	assert.Equal(t, []any{"launch", "product"}, scheduled["tags"])
	assert.Equal(t, []any{"instagram", "twitter"}, scheduled["socialMedia"])
	assert.Equal(t, "Marketing", scheduled["category"])

	posted := s.createPost(t, token, `{"title":"Now","description":"Posting right now","socialMedia":"facebook"}`)
	assert.Equal(t, true, posted["isPosted"])
	assert.Nil(t, posted["scheduledAt"])
	assert.Equal(t, "Other", posted["category"])

	_, body := s.do(t, http.MethodGet, "/api/profile", token, "")
	user := body["user"].(map[string]any)
	assert.Equal(t, []any{posted["id"]}, user["uploadedPosts"])
	assert.Equal(t, []any{scheduled["id"]}, user["scheduledPosts"])

	rec, body := s.do(t, http.MethodGet, "/api/posts", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["posts"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, posted["id"], list[0].(map[string]any)["id"])

	rec, body = s.do(t, http.MethodGet, "/api/posts?keyword=LAUNCH&platform=insta", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list = body["posts"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, scheduled["id"], list[0].(map[string]any)["id"])

	id := scheduled["id"].(string)
	rec, body = s.do(t, http.MethodPut, "/api/posts/"+id, token, `{"title":"Launch day","isScheduled":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := body["post"].(map[string]any)
	assert.Equal(t, "Launch day", updated["title"])
	assert.Equal(t, false, updated["isScheduled"])
	assert.Nil(t, updated["scheduledAt"])
	assert.Equal(t, scheduled["createdAt"], updated["createdAt"])

	rec, body = s.do(t, http.MethodGet, "/api/posts/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Launch day", body["post"].(map[string]any)["title"])

	rec, body = s.do(t, http.MethodDelete, "/api/posts/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post deleted successfully", body["message"])

	rec, _ = s.do(t, http.MethodGet, "/api/posts/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "ann@x.com")

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"no platforms", `{"title":"T","description":"D","socialMedia":[]}`, "socialMedia is required"},
		{"blank platforms", `{"title":"T","description":"D","socialMedia":" , "}`, "socialMedia is required"},
		{"unknown platform", `{"title":"T","description":"D","socialMedia":["myspace"]}`, "myspace is not a supported social media platform"},
		{"missing title", `{"description":"D","socialMedia":["twitter"]}`, "title is required"},
		{"scheduled without time", `{"title":"T","description":"D","socialMedia":["twitter"],"isScheduled":true}`, "scheduledAt is required when isScheduled is true"},
		{"long title", `{"title":"` + strings.Repeat("a", 101) + `","description":"D","socialMedia":["twitter"]}`, "title must be at most 100 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.do(t, http.MethodPost, "/api/posts", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestPostsAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	ann := s.signup(t, "ann@x.com")
	bob := s.signup(t, "bob@x.com")

	post := s.createPost(t, ann, `{"title":"Mine","description":"Only mine","socialMedia":["twitter"]}`)
	id := post["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec, body := s.do(t, method, "/api/posts/"+id, bob, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.Equal(t, "Post not found", body["message"])
	}
	rec, _ := s.do(t, http.MethodPut, "/api/posts/"+id, bob, `{"title":"Stolen"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body := s.do(t, http.MethodGet, "/api/posts", bob, "")
	assert.Equal(t, []any{}, body["posts"])
}

func TestUpdatePostRejectsEmptyPlatforms(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "ann@x.com")
	post := s.createPost(t, token, `{"title":"T","description":"D","socialMedia":["twitter"]}`)

	rec, body := s.do(t, http.MethodPut, "/api/posts/"+post["id"].(string), token, `{"socialMedia":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "socialMedia must contain at least 1 item(s)", body["message"])
}

func TestAutocomplete(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/openai/autocomplete", "", `{"prompt":"  ","field":"title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Prompt missing", body["message"])

	s.completer.text = "\"Launch Day\"\nBig News, Coming Soon\n"
	rec, body = s.do(t, http.MethodPost, "/api/openai/autocomplete", "", `{"prompt":"product launch","field":"title"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Launch Day", "Big News", "Coming Soon"}, body["suggestions"])

	s.completer.err = errors.New("quota exceeded")
	rec, body = s.do(t, http.MethodPost, "/api/openai/autocomplete", "", `{"prompt":"product launch"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Suggestion service unavailable", body["message"])
}

func TestHealth(t *testing.T) {
	e := echo.New()

	h := NewHealthHandler(map[string]HealthCheck{
		"mongo": func(context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	h = NewHealthHandler(map[string]HealthCheck{
		"mongo":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"connection refused"`)
}
