package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// PomodoroRepo provides database operations for focus timer sessions.
type PomodoroRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPomodoroRepo creates a new PomodoroRepo with real time provider.
func NewPomodoroRepo(db *sql.DB) *PomodoroRepo {
	return &PomodoroRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPomodoroRepoWithTimeProvider creates a new PomodoroRepo with a custom time provider.
func NewPomodoroRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PomodoroRepo {
	return &PomodoroRepo{DB: db, timeProvider: tp}
}

// Start inserts a new running session beginning now.
func (r *PomodoroRepo) Start(
	ctx context.Context,
	req *model.StartPomodoroRequest,
) (*model.PomodoroSession, error) {
	if req == nil {
		return nil, errors.New("start pomodoro request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.PomodoroSession
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO pomodoro_sessions (user_id, task_id, start_time, duration, is_completed)
			VALUES ($1, $2, $3, $4, FALSE)
			RETURNING id, user_id, task_id, start_time, end_time, duration, is_completed
		`,
			req.UserID,
			req.TaskID,
			r.timeProvider.Now().UTC(),
			req.Duration,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PomodoroSession])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to start pomodoro session: %w", err)
	}
	return &out, nil
}

// GetActive retrieves the user's running session, if any.
func (r *PomodoroRepo) GetActive(ctx context.Context, userID string) (*model.PomodoroSession, error) {
	var session model.PomodoroSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, pomodoroGetActiveQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		session, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PomodoroSession])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPomodoroNotFound
		}
		return nil, fmt.Errorf("failed to get active pomodoro session: %w", err)
	}
	return &session, nil
}

// Finish ends a running session owned by the user. completed records whether
// the timer ran to its full duration or was abandoned early.
func (r *PomodoroRepo) Finish(
	ctx context.Context,
	userID, id string,
	completed bool,
) (*model.PomodoroSession, error) {
	var out model.PomodoroSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE pomodoro_sessions
			SET end_time = $1, is_completed = $2
			WHERE id = $3 AND user_id = $4 AND end_time IS NULL
			RETURNING id, user_id, task_id, start_time, end_time, duration, is_completed
		`,
			r.timeProvider.Now().UTC(),
			completed,
			id,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PomodoroSession])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPomodoroNotFound
		}
		return nil, fmt.Errorf("failed to finish pomodoro session: %w", err)
	}
	return &out, nil
}

// ListRecent retrieves the user's most recent sessions with task titles.
func (r *PomodoroRepo) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]*model.PomodoroSessionWithTask, error) {
	if limit <= 0 {
		limit = 20
	}

	var rowsOut []model.PomodoroSessionWithTask
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, pomodoroListRecentQuery, userID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PomodoroSessionWithTask])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list pomodoro sessions: %w", err)
	}
	res := make([]*model.PomodoroSessionWithTask, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Stats summarizes the user's completed sessions for today and the trailing
// seven days, relative to the repo's clock.
func (r *PomodoroRepo) Stats(ctx context.Context, userID string) (*model.PomodoroStats, error) {
	now := r.timeProvider.Now().UTC()

	var stats model.PomodoroStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, pomodoroStatsQuery, userID, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		stats, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PomodoroStats])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pomodoro stats: %w", err)
	}
	return &stats, nil
}

// --- helpers ---

const (
	pomodoroGetActiveQuery = `
		SELECT id, user_id, task_id, start_time, end_time, duration, is_completed
		FROM pomodoro_sessions
		WHERE user_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`

	pomodoroListRecentQuery = `
		SELECT p.id, p.user_id, p.task_id, p.start_time, p.end_time, p.duration, p.is_completed,
		       t.title AS task_title
		FROM pomodoro_sessions p
		LEFT JOIN tasks t ON t.id = p.task_id
		WHERE p.user_id = $1
		ORDER BY p.start_time DESC
		LIMIT $2`

	pomodoroStatsQuery = `
		SELECT
			COUNT(*) FILTER (WHERE is_completed AND start_time >= date_trunc('day', $2::timestamptz)) AS completed_today,
			COALESCE(SUM(duration) FILTER (WHERE is_completed AND start_time >= date_trunc('day', $2::timestamptz)), 0)::int AS minutes_today,
			COUNT(*) FILTER (WHERE is_completed AND start_time >= $2::timestamptz - interval '7 days') AS completed_week
		FROM pomodoro_sessions
		WHERE user_id = $1`
)
