package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// MoodRepo provides database operations for mood entries. The table carries a
// unique (user_id, date) constraint so a user records at most one entry per day.
type MoodRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMoodRepo creates a new MoodRepo with real time provider.
func NewMoodRepo(db *sql.DB) *MoodRepo {
	return &MoodRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMoodRepoWithTimeProvider creates a new MoodRepo with a custom time provider (useful for tests).
func NewMoodRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MoodRepo {
	return &MoodRepo{DB: db, timeProvider: tp}
}

// Create inserts a mood entry. Returns ErrMoodEntryExists when the user
// already recorded one for the date.
func (r *MoodRepo) Create(
	ctx context.Context,
	req *model.CreateMoodEntryRequest,
) (*model.MoodEntry, error) {
	if req == nil {
		return nil, errors.New("create mood entry request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.MoodEntry
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO mood_entries (user_id, date, mood, notes, energy_level, sleep_hours, activities, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, user_id, date, mood, notes, energy_level, sleep_hours, activities, created_at, updated_at
		`,
			req.UserID,
			req.Date,
			int(req.Mood),
			req.Notes,
			req.EnergyLevel,
			req.SleepHours,
			req.Activities,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MoodEntry])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a mood entry owned by the user.
func (r *MoodRepo) GetByID(ctx context.Context, userID, id string) (*model.MoodEntry, error) {
	return r.getByQuery(ctx, moodGetByIDQuery, "failed to get mood entry by ID", id, userID)
}

// GetByDate retrieves the user's entry for a calendar day, if any.
func (r *MoodRepo) GetByDate(
	ctx context.Context,
	userID string,
	date time.Time,
) (*model.MoodEntry, error) {
	return r.getByQuery(ctx, moodGetByDateQuery, "failed to get mood entry by date", userID, date)
}

// ListRecent retrieves the user's most recent entries, newest date first.
func (r *MoodRepo) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]*model.MoodEntry, error) {
	if limit <= 0 {
		limit = 30
	}

	var rowsOut []model.MoodEntry
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, moodListRecentQuery, userID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MoodEntry])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	res := make([]*model.MoodEntry, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a mood entry owned by the user. The date is fixed
// at creation and cannot be changed.
func (r *MoodRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateMoodEntryRequest,
) (*model.MoodEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.MoodEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, moodGetByIDQuery, id, userID)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MoodEntry])
			return e
		}
		args = append(args, id, userID)
		query := "UPDATE mood_entries SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)-1) +
			" AND user_id = $" + strconv.Itoa(len(args)) +
			" RETURNING id, user_id, date, mood, notes, energy_level, sleep_hours, activities, created_at, updated_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MoodEntry])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

func (r *MoodRepo) buildUpdateClause(req model.UpdateMoodEntryRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Mood != nil {
		setParts = append(setParts, fmt.Sprintf("mood = $%d", nextIdx()))
		args = append(args, int(*req.Mood))
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", nextIdx()))
		args = append(args, *req.Notes)
	}
	if req.EnergyLevel != nil {
		setParts = append(setParts, fmt.Sprintf("energy_level = $%d", nextIdx()))
		args = append(args, *req.EnergyLevel)
	}
	if req.SleepHours != nil {
		setParts = append(setParts, fmt.Sprintf("sleep_hours = $%d", nextIdx()))
		args = append(args, *req.SleepHours)
	}
	if req.Activities != nil {
		setParts = append(setParts, fmt.Sprintf("activities = $%d", nextIdx()))
		args = append(args, *req.Activities)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a mood entry owned by the user.
func (r *MoodRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM mood_entries WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete mood entry: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const (
	moodGetByIDQuery = `
		SELECT id, user_id, date, mood, notes, energy_level, sleep_hours, activities, created_at, updated_at
		FROM mood_entries
		WHERE id = $1 AND user_id = $2`

	moodGetByDateQuery = `
		SELECT id, user_id, date, mood, notes, energy_level, sleep_hours, activities, created_at, updated_at
		FROM mood_entries
		WHERE user_id = $1 AND date = $2`

	moodListRecentQuery = `
		SELECT id, user_id, date, mood, notes, energy_level, sleep_hours, activities, created_at, updated_at
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`
)

func (r *MoodRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.MoodEntry, error) {
	var entry model.MoodEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MoodEntry])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMoodEntryNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &entry, nil
}

func (r *MoodRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrMoodEntryNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrMoodEntryExists
	}
	return err
}
