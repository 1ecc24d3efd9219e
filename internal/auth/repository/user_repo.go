package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bytedocker/site/internal/auth/domain"
)

const usersCollection = "users"

// UserRepository reads and writes role records in users/{uid}.
type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

// Get returns the user record, or nil when none exists.
func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.AdminUser, error) {
	snap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get users/%s: %w", uid, err)
	}
	var u domain.AdminUser
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode users/%s: %w", uid, err)
	}
	u.UID = uid
	return &u, nil
}

// GrantRole adds role to the user's roles, creating the record if needed.
func (r *UserRepository) GrantRole(ctx context.Context, uid, email, role string) error {
	_, err := r.client.Collection(usersCollection).Doc(uid).Set(ctx, map[string]interface{}{
		"email":     email,
		"roles":     firestore.ArrayUnion(role),
		"updatedAt": time.Now().UnixMilli(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("grant %s to users/%s: %w", role, uid, err)
	}
	return nil
}
