package usecases

import (
	"errors"
	"fmt"
	"testing"

	"project_zapflow/internal/entities"

	"github.com/golang-jwt/jwt/v5"
)

type fakeUserStore struct {
	users []*entities.User
}

func (f *fakeUserStore) Create(user *entities.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByBotNumber(digits string) (*entities.User, error) {
	if digits == "" {
		return nil, nil
	}
	for _, u := range f.users {
		if CleanNumber(u.BotNumber) == digits {
			return u, nil
		}
	}
	return nil, nil
}

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	store := &fakeUserStore{}
	uc := NewAuthUsecase(store, testSecret)

	userID, err := uc.Register("a@b.com", "secret123", "5511888")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if userID == "" {
		t.Fatal("register must return the new user id")
	}

	token, err := uc.Login("a@b.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must be verifiable: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["id"] != userID || claims["email"] != "a@b.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &fakeUserStore{}
	uc := NewAuthUsecase(store, testSecret)

	if _, err := uc.Register("a@b.com", "secret123", "5511888"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := uc.Register("a@b.com", "other456", "5511777")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterDuplicateBotNumber(t *testing.T) {
	store := &fakeUserStore{}
	uc := NewAuthUsecase(store, testSecret)

	if _, err := uc.Register("a@b.com", "secret123", "5511888"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// Same number under different formatting must still collide.
	_, err := uc.Register("c@d.com", "other456", "+55 (11) 888")
	if !errors.Is(err, ErrBotNumberTaken) {
		t.Fatalf("expected ErrBotNumberTaken, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	store := &fakeUserStore{}
	uc := NewAuthUsecase(store, testSecret)

	if _, err := uc.Login("ghost@b.com", "whatever"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := uc.Register("a@b.com", "secret123", "5511888"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := uc.Login("a@b.com", "wrongpass"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}
