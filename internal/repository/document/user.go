// Package document maps domain entities onto a model.DocumentStore.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/flower-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	store model.DocumentStore
}

func NewUserRepository(store model.DocumentStore) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	doc, err := r.store.Get(ctx, model.UsersCollection, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	user, err := userFromDocument(doc)
	if err != nil {
		return model.User{}, err
	}
	if user.Email == "" {
		user.Email = email
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) error {
	doc, err := toDocument(user)
	if err != nil {
		return err
	}

	err = r.store.Create(ctx, model.UsersCollection, user.Email, doc)
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	refs, err := r.store.List(ctx, model.UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]model.User, 0, len(refs))
	for _, ref := range refs {
		user, err := userFromDocument(ref.Data)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", ref.ID, err)
		}
		if user.Email == "" {
			user.Email = ref.ID
		}
		users = append(users, user)
	}
	return users, nil
}

func userFromDocument(doc model.Document) (model.User, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to encode user document: %w", err)
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return model.User{}, fmt.Errorf("failed to decode user document: %w", err)
	}
	return user, nil
}

func toDocument(v any) (model.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
