package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bytedocker/site/internal/content/domain"
)

// docCollection is a typed view over one Firestore collection whose
// documents decode into T.
type docCollection[T any] struct {
	client   *firestore.Client
	name     string
	notFound error
	// setID copies the document id onto a decoded value, for types that do
	// not persist their own id.
	setID func(*T, string)
}

func (c docCollection[T]) ref(id string) *firestore.DocumentRef {
	return c.client.Collection(c.name).Doc(id)
}

func (c docCollection[T]) decode(snap *firestore.DocumentSnapshot) (T, error) {
	var v T
	if err := snap.DataTo(&v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", c.name, snap.Ref.ID, err)
	}
	if c.setID != nil {
		c.setID(&v, snap.Ref.ID)
	}
	return v, nil
}

func (c docCollection[T]) list(ctx context.Context, q firestore.Query) ([]T, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		v, err := c.decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c docCollection[T]) all(ctx context.Context) ([]T, error) {
	return c.list(ctx, c.client.Collection(c.name).Query)
}

func (c docCollection[T]) get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, c.notFound
	}
	snap, err := c.ref(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, c.notFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	v, err := c.decode(snap)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c docCollection[T]) create(ctx context.Context, id string, v *T) error {
	_, err := c.ref(id).Create(ctx, v)
	if status.Code(err) == codes.AlreadyExists {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", c.name, id, err)
	}
	return nil
}

// replace overwrites an existing document; a missing one yields notFound.
func (c docCollection[T]) replace(ctx context.Context, id string, v *T) error {
	ref := c.ref(id)
	err := c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return c.notFound
			}
			return err
		}
		return tx.Set(ref, v)
	})
	if err != nil && !errors.Is(err, c.notFound) {
		return fmt.Errorf("update %s/%s: %w", c.name, id, err)
	}
	return err
}

func (c docCollection[T]) delete(ctx context.Context, id string) error {
	if _, err := c.ref(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c docCollection[T]) empty(ctx context.Context) (bool, error) {
	snaps, err := c.client.Collection(c.name).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", c.name, err)
	}
	return len(snaps) == 0, nil
}
