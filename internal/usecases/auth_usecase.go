package usecases

import (
	"errors"
	"fmt"
	"time"

	"project_zapflow/internal/entities"
	"project_zapflow/internal/interfaces"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 7 * 24 * time.Hour

var (
	ErrUserExists     = errors.New("Usuário já existe")
	ErrBotNumberTaken = errors.New("Número do bot já cadastrado")
	ErrUserNotFound   = errors.New("Usuário não encontrado")
	ErrWrongPassword  = errors.New("Senha incorreta")
)

type AuthUsecase struct {
	userStore interfaces.AuthUserStore
	jwtSecret []byte
}

func NewAuthUsecase(store interfaces.AuthUserStore, secret string) *AuthUsecase {
	return &AuthUsecase{
		userStore: store,
		jwtSecret: []byte(secret),
	}
}

// Register creates a tenant account. The bot number must be unclaimed:
// tenant resolution on the webhook is only unambiguous with one tenant per
// bot number.
func (uc *AuthUsecase) Register(email, password, botNumber string) (string, error) {
	existing, err := uc.userStore.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}

	owner, err := uc.userStore.GetByBotNumber(CleanNumber(botNumber))
	if err != nil {
		return "", err
	}
	if owner != nil {
		return "", ErrBotNumberTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: string(hashed),
		BotNumber:    botNumber,
	}
	if err := uc.userStore.Create(user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (uc *AuthUsecase) Login(email, password string) (string, error) {
	user, err := uc.userStore.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}
