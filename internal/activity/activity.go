package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/requestctx"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSync   = "sync"
	ActionSeed   = "seed"

	systemActor = "system"
)

type Entry struct {
	ID        int64     `json:"id"`
	ActorUID  string    `json:"actor_uid"`
	Action    string    `json:"action"`
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entity_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, e *Entry) error {
	const q = `
insert into activity_log (actor_uid, action, kind, entity_id, summary)
values ($1, $2, $3, $4, $5)
returning id, created_at;
`
	return r.db.QueryRow(ctx, q, e.ActorUID, e.Action, e.Kind, e.EntityID, e.Summary).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `
select id, actor_uid, action, kind, entity_id, summary, created_at
from activity_log
order by created_at desc, id desc
limit $1;
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorUID, &e.Action, &e.Kind, &e.EntityID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Store is what the Recorder persists to.
type Store interface {
	Insert(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Recorder appends audit entries on behalf of content mutations. A nil
// Recorder, or one without a store, records nothing.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record never fails the caller; a lost audit row is only logged.
func (r *Recorder) Record(ctx context.Context, action, kind, entityID, summary string) {
	if r == nil || r.store == nil {
		return
	}
	actor := requestctx.UserID(ctx)
	if actor == "" {
		actor = systemActor
	}
	e := &Entry{ActorUID: actor, Action: action, Kind: kind, EntityID: entityID, Summary: summary}
	if err := r.store.Insert(ctx, e); err != nil {
		logging.Op(ctx, "activity.record").Warn("failed to record activity",
			zap.String("action", action), zap.String("kind", kind), zap.String("entity_id", entityID), zap.Error(err))
	}
}

func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil || r.store == nil {
		return []Entry{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := r.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return entries, nil
}
