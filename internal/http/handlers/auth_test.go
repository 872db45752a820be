package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursehub/backend/internal/actorctx"
	"github.com/coursehub/backend/internal/domain/user"
	"github.com/coursehub/backend/internal/http/handlers"
	"github.com/coursehub/backend/internal/security"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementation of the handlers.UserStore interface

type fakeUserStore struct {
	createFn     func(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)
	countFn      func(ctx context.Context) (int, error)
	updateRoleFn func(ctx context.Context, id, role string) (user.User, error)
}

func (f *fakeUserStore) Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name, role)
	}
	return user.User{}, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserStore) Count(ctx context.Context) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

func (f *fakeUserStore) UpdateRole(ctx context.Context, id, role string) (user.User, error) {
	if f.updateRoleFn != nil {
		return f.updateRoleFn(ctx, id, role)
	}
	return user.User{}, user.ErrNotFound
}

type fakeIssuer struct {
	issueFn func(userID, role string) (string, error)
}

func (f *fakeIssuer) Issue(userID, role string) (string, error) {
	if f.issueFn != nil {
		return f.issueFn(userID, role)
	}
	return "test-token", nil
}

// helpers to mount one handler per test, optionally with a verified caller

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func asCaller(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(
			actorctx.WithCaller(c.Request.Context(), userID, role),
		)
		c.Next()
	}
}

func setupRouterAs(method, path, userID, role string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, asCaller(userID, role), h)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// Register tests

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createFn   func(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","name":"A","password":"pw1234"}`,
			createFn: func(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
				if role != user.RoleUser {
					t.Errorf("role = %q, want %q", role, user.RoleUser)
				}
				if passwordHash == "pw1234" {
					t.Error("password must be hashed before reaching the store")
				}
				return user.User{ID: "u1", Email: email, Name: name, Role: role}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: `{"email":"a@x.com","name":"A","password":"pw1234"}`,
			createFn: func(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
				return user.User{}, user.ErrEmailTaken
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "missing name",
			body:       `{"email":"a@x.com","password":"pw1234"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","name":"A","password":"pw1234"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       `{"email":"a@x.com","name":"A","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeUserStore{createFn: tc.createFn}, &fakeIssuer{})
			r := setupRouter(http.MethodPost, "/auth/register", h.Register)

			w := doJSON(t, r, http.MethodPost, "/auth/register", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus == http.StatusCreated {
				var resp struct {
					Token string    `json:"token"`
					User  user.User `json:"user"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}

				if resp.Token == "" {
					t.Error("expected a token in the response")
				}

				if resp.User.Role != user.RoleUser {
					t.Errorf("user.role = %q, want %q", resp.User.Role, user.RoleUser)
				}
			}
		})
	}
}

// Login tests

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("pw123")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	stored := user.User{ID: "u1", Email: "a@x.com", PasswordHash: hash, Name: "A", Role: user.RoleUser}

	tests := []struct {
		name         string
		body         string
		getByEmailFn func(ctx context.Context, email string) (user.User, error)
		wantStatus   int
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","password":"pw123"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return stored, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"a@x.com","password":"nope1"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return stored, nil
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			body: `{"email":"b@x.com","password":"pw123"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeUserStore{getByEmailFn: tc.getByEmailFn}, &fakeIssuer{})
			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			w := doJSON(t, r, http.MethodPost, "/auth/login", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestMe(t *testing.T) {
	store := &fakeUserStore{
		getByIDFn: func(ctx context.Context, id string) (user.User, error) {
			if id != "u1" {
				return user.User{}, user.ErrNotFound
			}
			return user.User{ID: "u1", Email: "a@x.com", Name: "A", Role: user.RoleUser}, nil
		},
	}

	h := handlers.NewAuthHandler(store, &fakeIssuer{})

	t.Run("authenticated", func(t *testing.T) {
		r := setupRouterAs(http.MethodGet, "/auth/me", "u1", user.RoleUser, h.Me)

		w := doJSON(t, r, http.MethodGet, "/auth/me", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}

		if bytes.Contains(w.Body.Bytes(), []byte("passwordHash")) {
			t.Error("response must not expose the password hash")
		}
	})

	t.Run("no identity", func(t *testing.T) {
		r := setupRouter(http.MethodGet, "/auth/me", h.Me)

		w := doJSON(t, r, http.MethodGet, "/auth/me", "")

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestCount(t *testing.T) {
	store := &fakeUserStore{
		countFn: func(ctx context.Context) (int, error) { return 42, nil },
	}

	h := handlers.NewAuthHandler(store, &fakeIssuer{})

	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
	}{
		{name: "admin", userID: "u9", role: user.RoleAdmin, wantStatus: http.StatusOK},
		{name: "regular user", userID: "u1", role: user.RoleUser, wantStatus: http.StatusForbidden},
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var r *gin.Engine

			if tc.userID == "" {
				r = setupRouter(http.MethodGet, "/auth/count", h.Count)
			} else {
				r = setupRouterAs(http.MethodGet, "/auth/count", tc.userID, tc.role, h.Count)
			}

			w := doJSON(t, r, http.MethodGet, "/auth/count", "")

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus == http.StatusOK {
				var resp struct {
					Count int `json:"count"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}

				if resp.Count != 42 {
					t.Errorf("count = %d, want 42", resp.Count)
				}
			}
		})
	}
}

func TestUpdateRole(t *testing.T) {
	tests := []struct {
		name         string
		callerRole   string
		body         string
		updateRoleFn func(ctx context.Context, id, role string) (user.User, error)
		wantStatus   int
	}{
		{
			name:       "admin elevates user",
			callerRole: user.RoleAdmin,
			body:       `{"role":"ADMIN"}`,
			updateRoleFn: func(ctx context.Context, id, role string) (user.User, error) {
				return user.User{ID: id, Role: role}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown user",
			callerRole: user.RoleAdmin,
			body:       `{"role":"ADMIN"}`,
			updateRoleFn: func(ctx context.Context, id, role string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid role",
			callerRole: user.RoleAdmin,
			body:       `{"role":"ROOT"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-admin caller",
			callerRole: user.RoleUser,
			body:       `{"role":"ADMIN"}`,
			updateRoleFn: func(ctx context.Context, id, role string) (user.User, error) {
				return user.User{}, errors.New("must not be called")
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeUserStore{updateRoleFn: tc.updateRoleFn}, &fakeIssuer{})
			r := setupRouterAs(http.MethodPut, "/auth/users/:id/role", "caller", tc.callerRole, h.UpdateRole)

			w := doJSON(t, r, http.MethodPut, "/auth/users/u2/role", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}
