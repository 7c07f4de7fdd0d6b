package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"journal/internal/apperr"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func openTestUsers(t *testing.T) *Users {
	t.Helper()
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        filepath.Join(t.TempDir(), "auth_test.db"),
	}, &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Users{DB: db}
}

func TestSingleOwnerRegistration(t *testing.T) {
	t.Parallel()

	users := openTestUsers(t)
	ctx := context.Background()

	u, err := users.Register(ctx, " Me@Example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == 0 || u.Email != "me@example.com" || u.PasswordHash == "correct horse" {
		t.Fatalf("user=%+v", u)
	}

	if _, err := users.Register(ctx, "other@example.com", "another pass"); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("second register err=%v", err)
	}

	if _, err := users.Authenticate(ctx, "me@example.com", "correct horse"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := users.Authenticate(ctx, "me@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v", err)
	}
	if _, err := users.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err=%v", err)
	}
}

func TestOwnerIndexAdmitsOneUser(t *testing.T) {
	t.Parallel()

	users := openTestUsers(t)
	ctx := context.Background()
	if _, err := users.Register(ctx, "me@example.com", "correct horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// a registration that raced past the count still hits the index
	second := User{Email: "other@example.com", PasswordHash: "x", Owner: true}
	if err := users.DB.Create(&second).Error; err == nil {
		t.Fatalf("expected unique owner violation")
	}

	var n int64
	if err := users.DB.Model(&User{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("users=%d err=%v", n, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	users := openTestUsers(t)
	var ve *apperr.ValidationError
	if _, err := users.Register(context.Background(), "me@example.com", "short"); !errors.As(err, &ve) || ve.Field != "password" {
		t.Fatalf("err=%v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	j := NewJWT("secret")
	tok, err := j.Sign(7)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	id, err := j.Verify(tok)
	if err != nil || id != 7 {
		t.Fatalf("Verify: id=%d err=%v", id, err)
	}
	if _, err := NewJWT("other").Verify(tok); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	j := NewJWT("secret")
	h := RequireAuth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok || id != 3 {
			t.Errorf("user id=%d ok=%v", id, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token code=%d", rec.Code)
	}

	tok, _ := j.Sign(3)
	req = httptest.NewRequest(http.MethodGet, "/logs", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("with token code=%d", rec.Code)
	}
}
