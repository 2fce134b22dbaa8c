package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoUser is returned when no account has been created yet.
	ErrNoUser = errors.New("no user configured")
)

const defaultAdminName = "Admin"

// UserService describes operations on the single site owner.
type UserService interface {
	// Owner returns the first stored user, the one shown in page headers.
	Owner(ctx context.Context) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Rename(ctx context.Context, id int64, name string) (*domain.User, error)
	// EnsureAdmin sets the login credentials of the first user, creating one
	// when the table is empty. It reports whether a user was created.
	EnsureAdmin(ctx context.Context, username, password string) (*domain.User, bool, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Owner(ctx context.Context) (*domain.User, error) {
	user, err := s.users.First(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoUser
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Authenticate matches against the first user only. The watchlist is a
// single-account site.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.users.First(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(user.Username)) == 1
	passwordOK := user.VerifyPassword(password)
	if !usernameOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Rename(ctx context.Context, id int64, name string) (*domain.User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, bool, error) {
	if username == "" {
		return nil, false, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, false, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user, err := s.users.First(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = &domain.User{Name: defaultAdminName, Username: username}
		if err := user.SetPassword(password); err != nil {
			return nil, false, err
		}
		if _, err := s.users.Create(ctx, user); err != nil {
			return nil, false, err
		}
		return sanitizeUser(user), true, nil
	case err != nil:
		return nil, false, err
	}

	user.Username = username
	if err := user.SetPassword(password); err != nil {
		return nil, false, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, false, err
	}
	return sanitizeUser(user), false, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
