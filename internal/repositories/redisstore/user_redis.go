package redisstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/repositories"
)

type userStore struct {
	store *Store
	key   string
}

// storedUser is the blob representation. The API model hides the secret from
// JSON responses, so the collection keeps its own shape that includes it.
type storedUser struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Secret   string    `json:"secret,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

func (su *storedUser) toModel() *models.User {
	return &models.User{
		ID:       su.ID,
		Name:     su.Name,
		Email:    su.Email,
		Secret:   su.Secret,
		JoinedAt: su.JoinedAt,
	}
}

func (u *userStore) load(ctx context.Context) []*storedUser {
	users := []*storedUser{}
	u.store.loadCollection(ctx, u.key, &users)
	return users
}

func (u *userStore) List(ctx context.Context) ([]*models.User, error) {
	stored := u.load(ctx)
	users := make([]*models.User, 0, len(stored))
	for _, su := range stored {
		users = append(users, su.toModel())
	}
	return users, nil
}

func (u *userStore) Create(ctx context.Context, name, email, secret string) (*models.User, error) {
	users := u.load(ctx)

	for _, existing := range users {
		if strings.EqualFold(existing.Email, email) {
			return nil, repositories.ErrDuplicateUser
		}
	}

	user := &storedUser{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Secret:   secret,
		JoinedAt: time.Now(),
	}

	users = append(users, user)
	u.store.saveCollection(ctx, u.key, users)

	return user.toModel(), nil
}

func (u *userStore) Authenticate(ctx context.Context, email, secret string) (*models.User, error) {
	for _, user := range u.load(ctx) {
		if !strings.EqualFold(user.Email, email) {
			continue
		}
		// Accounts registered without a secret accept any credential.
		if user.Secret != "" && user.Secret != secret {
			return nil, repositories.ErrNotFound
		}
		return user.toModel(), nil
	}

	return nil, repositories.ErrNotFound
}
