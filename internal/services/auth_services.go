package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"PersonaAPI/internal/logutil"
	"PersonaAPI/internal/model"
	"PersonaAPI/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 6
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// ErrInvalidCredentials covers both unknown username and wrong
	// password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	Users repository.UserRepository
}

func NewAuthService(u repository.UserRepository) *AuthService {
	return &AuthService{Users: u}
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

func (s *AuthService) validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("password too short: must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// Register creates an active account with a hashed password. An exact,
// case-sensitive username match against an existing account is rejected.
func (s *AuthService) Register(ctx context.Context, username, email, firstName, lastName, password string) (int64, error) {
	if username == "" {
		return 0, errors.New("username is required")
	}
	if err := s.validateEmail(email); err != nil {
		return 0, err
	}
	if err := s.validatePassword(password); err != nil {
		return 0, err
	}
	_, err := s.Users.GetByUsername(ctx, username)
	if err == nil {
		return 0, repository.ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	// The store's unique constraints settle concurrent duplicates:
	// exactly one insert wins.
	return s.Users.Create(ctx, &model.User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		IsActive:     true,
	})
}

// Login authenticates username+password and returns the user without the
// password hash. Unknown user and wrong password are logged apart but
// both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Debug().Str("username", username).Msg("login rejected: unknown username")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Debug().Str("username", username).Msg("login rejected: password mismatch")
		return nil, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Debug().Int64("user_id", userID).Msg("password change rejected: current password mismatch")
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, string(hash))
}

// GetUser fetches an account by id, without the password hash.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}
