package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budget-server/internal/dto"
	"budget-server/internal/models"
	"budget-server/pkg/auth"

	"go.uber.org/zap"
)

type AuthService struct {
	runner     TxRunner
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(runner TxRunner, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		runner:     runner,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		return nil, invalid("Username is required")
	case req.Password == "":
		return nil, invalid("Password is required")
	case strings.TrimSpace(req.Email) == "":
		return nil, invalid("Email is required")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: hashedPassword,
	}
	err = s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		_, err := st.Users.GetByUsername(ctx, username)
		if err == nil {
			return ErrUserExists
		}
		if !isNotFound(err) {
			return fmt.Errorf("lookup user: %w", err)
		}
		return st.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return &dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Login checks credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	p, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(p.UserID, p.Username)
	if err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		Token:      token,
		TokenType:  "Bearer",
		Expiration: expiresAt.UTC().Format(time.RFC3339),
		User:       dto.UserResponse{ID: p.UserID, Username: p.Username},
	}, nil
}

// Authenticate resolves HTTP Basic credentials to a principal.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	var user *models.User
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		user, err = st.Users.GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &Principal{UserID: user.ID, Username: user.Username}, nil
}

// ValidateToken resolves a session token to a principal.
func (s *AuthService) ValidateToken(token string) (*Principal, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &Principal{UserID: claims.UserID, Username: claims.Username}, nil
}

func (s *AuthService) Me(ctx context.Context, p *Principal) (*dto.UserResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var user *models.User
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		user, err = st.Users.GetByID(ctx, p.UserID)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return &dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}
