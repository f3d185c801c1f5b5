package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/neurozen/neurozen/internal/data/database"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// ExerciseRepo provides database operations for the breathing exercise
// catalog. The catalog is global, not per-user.
type ExerciseRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewExerciseRepo creates a new ExerciseRepo with real time provider.
func NewExerciseRepo(db *sql.DB) *ExerciseRepo {
	return &ExerciseRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewExerciseRepoWithTimeProvider creates a new ExerciseRepo with a custom time provider.
func NewExerciseRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ExerciseRepo {
	return &ExerciseRepo{DB: db, timeProvider: tp}
}

// Create adds a catalog entry.
func (r *ExerciseRepo) Create(
	ctx context.Context,
	req *model.CreateBreathingExerciseRequest,
) (*model.BreathingExercise, error) {
	if req == nil {
		return nil, errors.New("create breathing exercise request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.BreathingExercise
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO breathing_exercises (name, description, duration, steps, difficulty, image_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, name, description, duration, steps, difficulty, image_url, created_at
		`,
			strings.TrimSpace(req.Name),
			req.Description,
			req.Duration,
			req.Steps,
			req.Difficulty,
			req.ImageURL,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BreathingExercise])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create breathing exercise: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a catalog entry.
func (r *ExerciseRepo) GetByID(ctx context.Context, id string) (*model.BreathingExercise, error) {
	var exercise model.BreathingExercise
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, exerciseGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		exercise, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BreathingExercise])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get breathing exercise by ID: %w", err)
	}
	return &exercise, nil
}

// List retrieves the catalog ordered by name, optionally filtered to one
// difficulty.
func (r *ExerciseRepo) List(
	ctx context.Context,
	difficulty *model.ExerciseDifficulty,
) ([]*model.BreathingExercise, error) {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(
			"id", "name", "description", "duration", "steps", "difficulty", "image_url", "created_at",
		),
		database.WithOrderBy("name", sortDirAsc),
	}
	if difficulty != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("difficulty", database.Equal, *difficulty),
		))
	}
	query, args := database.BuildListQuery(
		database.NewListQueryOptions("breathing_exercises", queryOpts...),
	)

	var rowsOut []model.BreathingExercise
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.BreathingExercise])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list breathing exercises: %w", err)
	}
	res := make([]*model.BreathingExercise, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a catalog entry.
func (r *ExerciseRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM breathing_exercises WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete breathing exercise: %w", err)
	}
	return rows > 0, nil
}

const exerciseGetByIDQuery = `
	SELECT id, name, description, duration, steps, difficulty, image_url, created_at
	FROM breathing_exercises
	WHERE id = $1`
