package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/huhyoundo/premium-todolist/domain/user"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := NewUserRepository(db)
	hasher := &PasswordHasher{cost: 4} // minimum cost keeps tests fast
	sessions := NewSessionManager(testSessionConfig())
	return NewService(repo, hasher, sessions)
}

func TestService_Register(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	t.Run("valid registration", func(t *testing.T) {
		user, err := s.Register(ctx, "alice@example.com", "password123", "Alice")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %q", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %q", user.Name)
		}
		if user.PasswordHash == "password123" {
			t.Error("password must be stored hashed")
		}
	})

	t.Run("name defaults to email local part", func(t *testing.T) {
		user, err := s.Register(ctx, "bob.builder@example.com", "password123", "")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Name != "bob.builder" {
			t.Errorf("expected derived name bob.builder, got %q", user.Name)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.Register(ctx, "alice@example.com", "password123", "")
		if err != ErrUserExists {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := s.Register(ctx, "not-an-email", "password123", "")
		if err != ErrInvalidEmail {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		_, err := s.Register(ctx, "short@example.com", "seven77", "")
		if err != ErrWeakPassword {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("overlong password", func(t *testing.T) {
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		_, err := s.Register(ctx, "long@example.com", string(long), "")
		if err != ErrPasswordTooLong {
			t.Errorf("expected ErrPasswordTooLong, got %v", err)
		}
	})
}

func TestService_Login(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "carol@example.com", "password123", "Carol"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := s.Login(ctx, "carol@example.com", "password123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Error("expected both tokens to be issued")
		}
		if pair.TokenType != "Bearer" {
			t.Errorf("expected token type Bearer, got %q", pair.TokenType)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(ctx, "carol@example.com", "wrong-password")
		if err != ErrInvalidCredentials {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.Login(ctx, "nobody@example.com", "password123")
		if err != ErrInvalidCredentials {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestService_Refresh(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "dave@example.com", "password123", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	pair, err := s.Login(ctx, "dave@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	t.Run("valid refresh token", func(t *testing.T) {
		fresh, err := s.Refresh(ctx, pair.RefreshToken)
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if fresh.AccessToken == "" {
			t.Error("expected a new access token")
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		if _, err := s.Refresh(ctx, pair.AccessToken); err == nil {
			t.Error("expected error when refreshing with an access token")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := s.Refresh(ctx, "garbage"); err == nil {
			t.Error("expected error for a malformed refresh token")
		}
	})
}

func TestService_ValidateSession(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "erin@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	pair, err := s.Login(ctx, "erin@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	t.Run("valid access token", func(t *testing.T) {
		claims, err := s.ValidateSession(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("ValidateSession() error = %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("claims.UserID = %q, want %q", claims.UserID, user.ID)
		}
		if claims.Email != "erin@example.com" {
			t.Errorf("claims.Email = %q, want erin@example.com", claims.Email)
		}
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		if _, err := s.ValidateSession(ctx, pair.RefreshToken); err != ErrInvalidToken {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestService_GetUser(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "frank@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("existing user", func(t *testing.T) {
		found, err := s.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if found.Email != "frank@example.com" {
			t.Errorf("expected email frank@example.com, got %q", found.Email)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := s.GetUser(ctx, "non-existent-id"); err != ErrUserNotFound {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
