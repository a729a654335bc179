package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type snapshotRepository struct {
	pool      *pgxpool.Pool
	profileID string
}

// NewSnapshotRepository stores the snapshot document in the snapshots table and
// projects its tasks into snapshot_tasks for ad-hoc reporting.
func NewSnapshotRepository(pool *pgxpool.Pool, profileID string) repository.SnapshotRepository {
	return &snapshotRepository{pool: pool, profileID: profileID}
}

func (r *snapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	const query = `
	SELECT tasks, progress, settings, exported_at
	FROM snapshots
	WHERE profile_id = $1
	`
	var (
		tasks, progress, settings []byte
		exportedAt                *time.Time
	)
	err := r.pool.QueryRow(ctx, query, r.profileID).Scan(&tasks, &progress, &settings, &exportedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, domain.Unavailable("load snapshot from postgres", err)
	}

	snapshot := domain.Snapshot{Tasks: []domain.Task{}, Settings: domain.DefaultSettings()}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &snapshot.Tasks); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "decode stored tasks", err)
		}
	}
	if err := json.Unmarshal(progress, &snapshot.Progress); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "decode stored progress", err)
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &snapshot.Settings); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "decode stored settings", err)
		}
	}
	if exportedAt != nil {
		snapshot.ExportedAt = exportedAt.UTC()
	}
	return &snapshot, nil
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	tasks := snapshot.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	tasksDoc, err := marshalJSON(tasks)
	if err != nil {
		return err
	}
	progressDoc, err := marshalJSON(snapshot.Progress)
	if err != nil {
		return err
	}
	settingsDoc, err := marshalJSON(snapshot.Settings)
	if err != nil {
		return err
	}

	const upsert = `
	INSERT INTO snapshots (profile_id, tasks, progress, settings, experience, level, exported_at, version)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
	ON CONFLICT (profile_id) DO UPDATE SET
		tasks = EXCLUDED.tasks,
		progress = EXCLUDED.progress,
		settings = EXCLUDED.settings,
		experience = EXCLUDED.experience,
		level = EXCLUDED.level,
		exported_at = EXCLUDED.exported_at,
		version = snapshots.version + 1,
		updated_at = NOW()
	`

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsert,
			r.profileID,
			tasksDoc,
			progressDoc,
			settingsDoc,
			snapshot.Progress.Experience,
			snapshot.Progress.Level,
			nullTime(snapshot.ExportedAt),
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM snapshot_tasks WHERE profile_id = $1`, r.profileID); err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"snapshot_tasks"},
			[]string{"profile_id", "position", "task_id", "title", "category", "priority", "due_date", "created_at", "completed", "completed_at"},
			pgx.CopyFromSlice(len(tasks), func(i int) ([]any, error) {
				t := tasks[i]
				return []any{
					r.profileID, i, t.ID, t.Title, string(t.Category), string(t.Priority),
					nullDate(t.DueDate), t.CreatedAt.Time(), t.Completed, nullDate(t.CompletedAt),
				}, nil
			}),
		)
		return err
	})
	if err != nil {
		return domain.Unavailable("save snapshot to postgres", err)
	}
	return nil
}

func (r *snapshotRepository) Clear(ctx context.Context) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM snapshot_tasks WHERE profile_id = $1`, r.profileID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM snapshots WHERE profile_id = $1`, r.profileID)
		return err
	})
	if err != nil {
		return domain.Unavailable("clear postgres snapshot", err)
	}
	return nil
}
