package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/inamate/canvas-go/internal/db/dbgen"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type fakeUsers struct {
	byID map[string]dbgen.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]dbgen.User)}
}

func (f *fakeUsers) CreateUser(_ context.Context, arg dbgen.CreateUserParams) (dbgen.User, error) {
	for _, u := range f.byID {
		if u.Email == arg.Email {
			return dbgen.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u := dbgen.User{ID: arg.ID, Email: arg.Email, Password: arg.Password, DisplayName: arg.DisplayName}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (dbgen.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (dbgen.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUsers(), "secret")
	ctx := context.Background()

	reg, err := svc.Register(ctx, "ada@example.com", "correct horse", "Ada")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !strings.HasPrefix(reg.User.ID, "user_") {
		t.Errorf("user id = %s, want user_ prefix", reg.User.ID)
	}

	if _, err := svc.Register(ctx, "ada@example.com", "another one", "Ada 2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register error = %v, want ErrEmailTaken", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		err      error
	}{
		{"ok", "ada@example.com", "correct horse", nil},
		{"wrong password", "ada@example.com", "battery staple", ErrInvalidCredentials},
		{"unknown email", "bob@example.com", "correct horse", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Login error = %v, want %v", err, tt.err)
			}
			if err != nil {
				return
			}
			id, err := svc.ValidateToken(res.Token)
			if err != nil || id != reg.User.ID {
				t.Errorf("ValidateToken() = %s, %v, want %s", id, err, reg.User.ID)
			}
		})
	}

	u, err := svc.GetUser(ctx, reg.User.ID)
	if err != nil || u.DisplayName != "Ada" {
		t.Errorf("GetUser() = %+v, %v", u, err)
	}
	if _, err := svc.GetUser(ctx, "user_missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewService(newFakeUsers(), "secret")
	token, err := svc.issueToken("user_1")
	if err != nil {
		t.Fatal(err)
	}

	other := NewService(newFakeUsers(), "different")
	expired := NewService(newFakeUsers(), "secret")
	expired.now = func() time.Time { return time.Now().Add(2 * tokenTTL) }

	tests := []struct {
		name  string
		svc   *Service
		token string
	}{
		{"wrong secret", other, token},
		{"expired", expired, token},
		{"garbage", svc, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := NewService(newFakeUsers(), "secret")
	token, err := svc.issueToken("user_42")
	if err != nil {
		t.Fatal(err)
	}

	var seen string
	h := svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && seen != "user_42" {
				t.Errorf("user id = %q, want user_42", seen)
			}
		})
	}
}

func TestRegisterHandler(t *testing.T) {
	h := NewHandler(NewService(newFakeUsers(), "secret"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"created", `{"email":"a@b.c","password":"longenough","displayName":"A"}`, http.StatusCreated},
		{"taken", `{"email":"a@b.c","password":"longenough","displayName":"A"}`, http.StatusConflict},
		{"short password", `{"email":"x@b.c","password":"short","displayName":"X"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusCreated {
				var res AuthResult
				if err := json.NewDecoder(rec.Body).Decode(&res); err != nil || res.Token == "" {
					t.Errorf("response = %+v, %v", res, err)
				}
			}
		})
	}
}
