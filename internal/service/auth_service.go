package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"room-service/internal/model"
	"room-service/internal/password"
	"room-service/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("service: user already exists")
	ErrInvalidCredentials = errors.New("service: invalid email or password")
	ErrWeakPassword       = errors.New("service: password too weak")
)

type UserStore interface {
	Insert(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService signs hosts up and in, and issues the HS512 tokens the
// JWT middleware accepts.
type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	warnings := password.Check(req.Password, req.Name, email)
	if !password.Valid(warnings) {
		failed, _ := lo.Find(warnings, func(w password.Warning) bool { return !w.IsValid })
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, failed.Text)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Signup: %w", err)
	}

	u := &model.User{Name: strings.TrimSpace(req.Name), Email: email, PasswordHash: hash}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("AuthService.Signup: %w", err)
	}
	return s.respond(u)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("AuthService.Login: %w", err)
	}

	if err := password.Compare(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("AuthService.Login: %w", err)
	}
	return s.respond(u)
}

func (s *AuthService) respond(u *model.User) (*model.AuthResponse, error) {
	token, err := s.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: *u}, nil
}

// IssueToken signs a token whose subject is hostID.
func (s *AuthService) IssueToken(hostID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(hostID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("AuthService.IssueToken: %w", err)
	}
	return token, nil
}
