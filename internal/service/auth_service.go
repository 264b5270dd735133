package service

import (
	"context"
	"errors"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
	"github.com/noah-isme/lentera-go-api/pkg/token"
)

var (
	// ErrAccountExists indicates the (email, role) pair is already registered.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound indicates no account matches the (email, role) pair.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials indicates a password mismatch on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWeakPassword indicates the password fails the complexity policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number and one special character")
	// ErrSameEmail indicates a profile edit re-submitted the current email.
	ErrSameEmail = errors.New("email is the same as the current one")
)

// AuthService exposes registration, login and profile use cases. Each role
// area (admin, instructor, student) shares the same flow; accounts are
// unique per (email, role).
type AuthService interface {
	Register(ctx context.Context, role models.Role, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, role models.Role, payload dto.LoginRequest) (dto.AuthResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, role models.Role, payload dto.UpdateProfileRequest) (dto.UserResponse, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     *token.Service
	validator  *validator.Validate
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService builds a new auth service.
func NewAuthService(users repository.UserRepository, tokens *token.Service, validate *validator.Validate, bcryptCost int, logger zerolog.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}

	return &authService{
		users:      users,
		tokens:     tokens,
		validator:  validate,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, role models.Role, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if !passwordMeetsPolicy(payload.Password) {
		return dto.UserResponse{}, ErrWeakPassword
	}

	_, err := s.users.GetByEmailAndRole(ctx, payload.Email, role)
	switch {
	case err == nil:
		return dto.UserResponse{}, ErrAccountExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", string(role)).Msg("account registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, role models.Role, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmailAndRole(ctx, payload.Email, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrAccountNotFound
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", string(role)).Msg("login succeeded")

	return dto.AuthResponse{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: signed,
	}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, role models.Role, payload dto.UpdateProfileRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrAccountNotFound
		}
		return dto.UserResponse{}, err
	}

	if user.Role != role {
		return dto.UserResponse{}, ErrAccountNotFound
	}

	if payload.Name != nil {
		user.Name = *payload.Name
	}

	if payload.Email != nil {
		if user.Email == *payload.Email {
			return dto.UserResponse{}, ErrSameEmail
		}
		user.Email = *payload.Email
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("profile updated")

	return dto.NewUserResponse(user), nil
}

// passwordMeetsPolicy checks the registration password policy: minimum 8
// characters with at least one upper, one lower, one digit and one special
// character.
func passwordMeetsPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	return upper && lower && digit && special
}
