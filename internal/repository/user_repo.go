package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cardapio/internal/kvstore"
	"cardapio/internal/model"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrEmailInUse             = errors.New("email already in use by another user")
)

// UserRepository defines operations for user data
type UserRepository interface {
	Save(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	users *Collection[model.User, *model.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store *kvstore.Adapter) UserRepository {
	return &userRepository{users: NewCollection[model.User](store)}
}

// Save stores a new user after checking the email is free.
func (r *userRepository) Save(ctx context.Context, user model.User) (*model.User, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	saved, err := r.users.Insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return saved, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// FindByEmail compares case-insensitively. Returns nil, nil when absent.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	matches, err := r.users.Filter(ctx, func(u *model.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	users, err := r.users.Filter(ctx, func(u *model.User) bool { return u.Role == role })
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// Update applies patch. Changing the email to one owned by another user fails.
func (r *userRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	if patch.Email != nil && !strings.EqualFold(strings.TrimSpace(*patch.Email), existing.Email) {
		owner, err := r.FindByEmail(ctx, strings.TrimSpace(*patch.Email))
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			return nil, ErrEmailInUse
		}
	}

	updated, err := r.users.Update(ctx, id, patch.Apply)
	if err != nil {
		if errors.Is(err, errRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.users.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return ok, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}
