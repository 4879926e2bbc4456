package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pakin/account-api/services/account-service/internal/model"
)

// InMemoryUserRepository is a map-backed UserRepository used in tests. Every
// operation runs under one mutex, which gives it the same per-document
// atomicity for filter+update sequences that the Mongo implementation gets
// from the server.
type InMemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// NewInMemoryUserRepository creates an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *InMemoryUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.ID = bson.NewObjectID()

	clone := *user
	r.users[user.ID.Hex()] = &clone

	return user, nil
}

func (r *InMemoryUserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.findByEmail(email)
	if user == nil {
		return nil, ErrNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) ListUsers(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}

	return users, nil
}

func (r *InMemoryUserRepository) DeleteUnconfirmedUser(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, user := range r.users {
		if user.Email == email && !user.Confirmed {
			delete(r.users, id)
		}
	}

	return nil
}

func (r *InMemoryUserRepository) GetPendingConfirmation(
	_ context.Context,
	email string,
	now time.Time,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.findByEmail(email)
	if user == nil || user.Confirmed ||
		user.ConfirmationTokenExpires == nil || !user.ConfirmationTokenExpires.After(now) {
		return nil, ErrNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) ConfirmUser(
	_ context.Context,
	email, token string,
	now time.Time,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.findByEmail(email)
	if user == nil || user.Confirmed || user.ConfirmationToken != token ||
		user.ConfirmationTokenExpires == nil || !user.ConfirmationTokenExpires.After(now) {
		return nil, ErrNotFound
	}

	user.Confirmed = true
	user.ConfirmedDate = &now
	user.ConfirmationToken = ""
	user.ConfirmationTokenExpires = nil
	user.UpdatedAt = now

	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) SetPasswordResetToken(
	_ context.Context,
	id, token string,
	requestedAt, expiresAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}

	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expiresAt
	user.PasswordResetRequestDate = &requestedAt
	user.UpdatedAt = requestedAt

	return nil
}

func (r *InMemoryUserRepository) ResetPassword(
	_ context.Context,
	email, token, passwordHash string,
	now time.Time,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.findByEmail(email)
	if user == nil || user.ResetPasswordToken == "" || user.ResetPasswordToken != token ||
		user.ResetPasswordExpires == nil || !user.ResetPasswordExpires.After(now) {
		return nil, ErrNotFound
	}

	user.PasswordHash = passwordHash
	user.PasswordResetDate = &now
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	user.PasswordResetRequestDate = nil
	user.UpdatedAt = now

	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
	now time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}

	user.PasswordHash = passwordHash
	user.PasswordLastUpdated = &now
	user.UpdatedAt = now

	return nil
}

// findByEmail must be called with the mutex held.
func (r *InMemoryUserRepository) findByEmail(email string) *model.User {
	for _, user := range r.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}
