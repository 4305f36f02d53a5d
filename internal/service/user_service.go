package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"app/internal/model"
	"app/internal/repository"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService interface {
	Register(ctx context.Context, u *model.User, password string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, email string, upd model.UserUpdate) error
	VerifyCredentials(ctx context.Context, email, password string) (*model.User, error)
	// IsPremium and IsAdmin report false for unknown users and on backend
	// failure; absence of data and failure are indistinguishable here.
	IsPremium(ctx context.Context, email string) bool
	IsAdmin(ctx context.Context, email string) bool
	UpgradeToPremium(ctx context.Context, email string) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Register(ctx context.Context, u *model.User, password string) (*model.User, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)
	if u.RegistrationDate == "" {
		u.RegistrationDate = time.Now().Format(time.RFC3339)
	}

	if err := s.userRepo.SaveUser(ctx, u); err != nil {
		s.logger.Error().Err(err).Str("email", u.Email).Msg("Failed to save user")
		return nil, err
	}
	return u, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) GetAll(ctx context.Context) ([]model.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

func (s *userService) UpdateProfile(ctx context.Context, email string, upd model.UserUpdate) error {
	err := s.userRepo.UpdateUser(ctx, email, upd)
	if errors.Is(err, repository.ErrRowNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *userService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Credential lookup failed")
		return nil, ErrInvalidCredentials
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) IsPremium(ctx context.Context, email string) bool {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Premium check failed")
		return false
	}
	return u != nil && u.IsPremium
}

func (s *userService) IsAdmin(ctx context.Context, email string) bool {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Admin check failed")
		return false
	}
	return u != nil && u.IsAdmin
}

func (s *userService) UpgradeToPremium(ctx context.Context, email string) error {
	premium := true
	err := s.userRepo.UpdateUser(ctx, email, model.UserUpdate{IsPremium: &premium})
	if errors.Is(err, repository.ErrRowNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to upgrade user to premium")
	}
	return err
}
