package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moklab/auth-service/internal/api/handler"
	"github.com/moklab/auth-service/internal/api/middleware"
	"github.com/moklab/auth-service/internal/core/domain"
	"github.com/moklab/auth-service/internal/core/service"
	"github.com/moklab/auth-service/internal/core/token"
)

type memUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	clone := *user
	r.nextID++
	clone.ID = strconv.Itoa(r.nextID)
	r.users[clone.Username] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	for name, u := range r.users {
		if u.ID == user.ID {
			clone := *user
			r.users[name] = &clone
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// newTestServer assembles the full request path — validator, error handler,
// authentication pipeline, role gates, handlers — on an in-memory user store.
func newTestServer(repo *memUserRepo) *echo.Echo {
	codec := token.NewCodec("e2e-secret", time.Hour)
	authService := service.NewAuthService(repo, codec, nil, nil)
	userService := service.NewUserService(repo)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Authenticate(codec, repo, zerolog.Nop()))

	g := e.Group("/api")
	g.POST("/auth/signup", authHandler.Signup)
	g.POST("/auth/signin", authHandler.Signin)
	g.GET("/public/hello", userHandler.PublicHello)
	g.GET("/user/profile", userHandler.Profile, middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin))

	admin := g.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/dashboard", userHandler.Dashboard)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	return e
}

func do(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEndToEnd_RegisterLoginAuthorize(t *testing.T) {
	repo := newMemUserRepo()
	e := newTestServer(repo)

	// Register.
	rec := do(e, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","password":"pw1234","email":"a@x.com"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Login.
	rec = do(e, http.MethodPost, "/api/auth/signin",
		`{"username":"alice","password":"pw1234"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var login map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("signin response: %v", err)
	}
	bearer := login["token"]
	if bearer == "" {
		t.Fatalf("expected token in signin response")
	}

	// Authenticated user route allows user role.
	rec = do(e, http.MethodGet, "/api/user/profile", "", bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var profile map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("profile response: %v", err)
	}
	if profile["username"] != "alice" {
		t.Fatalf("expected alice profile, got %+v", profile)
	}

	// Admin route rejects user role with 403.
	rec = do(e, http.MethodGet, "/api/admin/dashboard", "", bearer)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("dashboard as user: expected 403, got %d", rec.Code)
	}
}

func TestEndToEnd_AnonymousAccess(t *testing.T) {
	e := newTestServer(newMemUserRepo())

	// Public route needs no credentials.
	rec := do(e, http.MethodGet, "/api/public/hello", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("public: expected 200, got %d", rec.Code)
	}

	// Protected routes reject anonymous requests with 401, not 403.
	for _, path := range []string{"/api/user/profile", "/api/admin/dashboard"} {
		rec = do(e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}

	// A garbage token is treated as anonymous, not as an error.
	rec = do(e, http.MethodGet, "/api/user/profile", "", "garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestEndToEnd_AdminManagesUsers(t *testing.T) {
	repo := newMemUserRepo()
	e := newTestServer(repo)

	// Seed a regular user, then promote them straight in the store so an
	// admin token can be minted via the normal login flow.
	rec := do(e, http.MethodPost, "/api/auth/signup",
		`{"username":"root","password":"pw1234","email":"root@x.com"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rec.Code)
	}
	admin := repo.users["root"]
	admin.Role = domain.RoleAdmin

	rec = do(e, http.MethodPost, "/api/auth/signup",
		`{"username":"bob","password":"pw1234","email":"bob@x.com"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup bob: expected 201, got %d", rec.Code)
	}
	bobID := repo.users["bob"].ID

	rec = do(e, http.MethodPost, "/api/auth/signin",
		`{"username":"root","password":"pw1234"}`, "")
	var login map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &login)
	bearer := login["token"]

	// Admin reads, disables, and finally deletes bob.
	rec = do(e, http.MethodGet, "/api/admin/users/"+bobID, "", bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPut, "/api/admin/users/"+bobID, `{"enabled":false}`, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("update user: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Disabled bob can no longer log in.
	rec = do(e, http.MethodPost, "/api/auth/signin",
		`{"username":"bob","password":"pw1234"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("disabled signin: expected 401, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/api/admin/users/"+bobID, "", bearer)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete user: expected 204, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/api/admin/users/"+bobID, "", bearer)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted user: expected 404, got %d", rec.Code)
	}
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	e := newTestServer(newMemUserRepo())

	rec := do(e, http.MethodPost, "/api/auth/signup",
		`{"username":"carol","password":"pw1234","email":"c@x.com"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/auth/signup",
		`{"username":"carol","password":"other1","email":"c2@x.com"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate username: expected 409, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/auth/signup",
		`{"username":"carla","password":"other1","email":"c@x.com"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rec.Code)
	}
}
