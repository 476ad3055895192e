package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/service"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUserRepo()
	auth := service.NewAuthService(users, "test-secret", time.Hour)

	user, err := auth.Register(context.Background(), service.Registration{
		Name: "Ann", Email: "Ann@Example.com", Password: "pa55word", Role: domain.RoleRunner,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID.IsZero() || user.Email != "ann@example.com" || user.PasswordHash != "" {
		t.Fatalf("registered user = %+v", user)
	}

	token, loggedIn, err := auth.Login(context.Background(), "ann@example.com", "pa55word")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned %s, want %s", loggedIn.ID.Hex(), user.ID.Hex())
	}

	claims := &service.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(auth.GetJWTSecret()), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != user.ID.Hex() || claims.Role != domain.RoleRunner || claims.Issuer != "marathon-trainer" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRegisterErrors(t *testing.T) {
	users := newMemUserRepo()
	auth := service.NewAuthService(users, "test-secret", time.Hour)
	if _, err := auth.Register(context.Background(), service.Registration{
		Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleCoach,
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		role     domain.Role
		defaults *domain.RunnerDefaults
		wantErr  error
	}{
		{"duplicate email", "ann@example.com", domain.RoleRunner, nil, service.ErrUserAlreadyExists},
		{"unknown role", "bob@example.com", domain.Role("admin"), nil, service.ErrInvalidRole},
		{"missing email", "", domain.RoleRunner, nil, service.ErrMissingCredentials},
		{"coach with defaults", "cy@example.com", domain.RoleCoach, &domain.RunnerDefaults{WeeklyKmBase: 30}, service.ErrDefaultsForCoach},
		{"bad run days", "dee@example.com", domain.RoleRunner, &domain.RunnerDefaults{RunDays: []int{1, 2}}, domain.ErrInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), service.Registration{
				Name: "Someone", Email: tt.email, Password: "pw", Role: tt.role, Defaults: tt.defaults,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newMemUserRepo()
	auth := service.NewAuthService(users, "test-secret", time.Hour)
	if _, err := auth.Register(context.Background(), service.Registration{
		Name: "Ann", Email: "ann@example.com", Password: "right", Role: domain.RoleRunner,
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"ann@example.com", "wrong"},
		{"nobody@example.com", "right"},
	} {
		if _, _, err := auth.Login(context.Background(), tc.email, tc.password); !errors.Is(err, service.ErrAuthenticationFailed) {
			t.Fatalf("Login(%q, %q) err = %v, want ErrAuthenticationFailed", tc.email, tc.password, err)
		}
	}
}

func TestRunnerDefaultsRoundTrip(t *testing.T) {
	users := newMemUserRepo()
	auth := service.NewAuthService(users, "test-secret", time.Hour)
	ctx := context.Background()

	runner, err := auth.Register(ctx, service.Registration{
		Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleRunner,
		Defaults: &domain.RunnerDefaults{Level: domain.LevelBeginner, WeeklyKmBase: 20},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := auth.GetUser(ctx, runner.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Defaults == nil || got.Defaults.Level != domain.LevelBeginner || got.PasswordHash != "" {
		t.Fatalf("stored user = %+v", got)
	}

	updated, err := auth.UpdateRunnerDefaults(ctx, runner.ID, domain.RunnerDefaults{WeeklyKmBase: 35, RunDays: []int{0, 2, 5}})
	if err != nil {
		t.Fatalf("UpdateRunnerDefaults: %v", err)
	}
	if updated.Defaults.Level != "" || updated.Defaults.WeeklyKmBase != 35 || len(updated.Defaults.RunDays) != 3 {
		t.Fatalf("defaults not replaced: %+v", updated.Defaults)
	}

	if _, err := auth.UpdateRunnerDefaults(ctx, runner.ID, domain.RunnerDefaults{Level: "elite"}); !errors.Is(err, domain.ErrInvalidProfile) {
		t.Fatalf("invalid defaults err = %v", err)
	}
	coach := users.add(domain.User{Email: "coach@example.com", Role: domain.RoleCoach})
	if _, err := auth.UpdateRunnerDefaults(ctx, coach.ID, domain.RunnerDefaults{WeeklyKmBase: 10}); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("coach update err = %v, want ErrUserNotFound", err)
	}
}
