package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/repository"
	appErr "github.com/taskhive/engine/pkg/errors"
	"github.com/taskhive/engine/pkg/logger"
)

const minPasswordLen = 8

// AuthService covers credential handling, stateless session tokens, and the
// account lifecycle.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	IssueToken(userID uuid.UUID) (string, error)
	VerifyToken(token string) (uuid.UUID, error)
}

type authService struct {
	users      repository.UserRepository
	tasks      repository.TaskRepository
	hmacSecret []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.UserRepository, tasks repository.TaskRepository, secret []byte, tokenTTL time.Duration) AuthService {
	return &authService{users: users, tasks: tasks, hmacSecret: secret, tokenTTL: tokenTTL}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var violations []string
	if name == "" {
		violations = append(violations, "name is required")
	}
	if email == "" {
		violations = append(violations, "email is required")
	}
	if len(password) < minPasswordLen {
		violations = append(violations, "password must be at least 8 characters")
	}
	if len(violations) > 0 {
		return nil, "", appErr.Invalid("registration validation failed", violations)
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(ph),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return nil, "", appErr.New(appErr.CodeConflict, "email already registered")
		}
		return nil, "", err
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	logger.L().Info("user registered", zap.String("user_id", user.ID.String()))
	return &user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	// Unknown email and wrong password produce identical errors.
	var user models.User
	if err := s.users.GetByEmail(ctx, strings.TrimSpace(email), &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	logger.L().Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, &user, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.users.GetByID(ctx, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the user and every task they own. Task cleanup runs
// first so a failure cannot orphan tasks behind a deleted account.
func (s *authService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.DeleteByOwner(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.L().Info("account deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *authService) IssueToken(userID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}

func (s *authService) VerifyToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.hmacSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, appErr.New(appErr.CodeUnauthorized, "invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, appErr.New(appErr.CodeUnauthorized, "invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeUnauthorized, "invalid token subject")
	}
	return userID, nil
}
