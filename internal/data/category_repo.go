package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// CategoryRepo provides database operations for task categories.
// All reads and writes are scoped to the owning user.
type CategoryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCategoryRepo creates a new CategoryRepo with real time provider.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCategoryRepoWithTimeProvider creates a new CategoryRepo with a custom time provider.
func NewCategoryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CategoryRepo {
	return &CategoryRepo{DB: db, timeProvider: tp}
}

// Create inserts a new category for the user.
func (r *CategoryRepo) Create(
	ctx context.Context,
	req *model.CreateCategoryRequest,
) (*model.Category, error) {
	if req == nil {
		return nil, errors.New("create category request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Category
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO categories (user_id, name, color, description, icon, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, user_id, name, color, description, icon, created_at
		`,
			req.UserID,
			strings.TrimSpace(req.Name),
			req.Color,
			req.Description,
			req.Icon,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a category owned by the user.
func (r *CategoryRepo) GetByID(ctx context.Context, userID, id string) (*model.Category, error) {
	var cat model.Category
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, categoryGetByIDQuery, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		cat, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return &cat, nil
}

// ListForUser retrieves the user's categories with their open-task counts,
// ordered by name.
func (r *CategoryRepo) ListForUser(
	ctx context.Context,
	userID string,
) ([]*model.CategoryWithTaskCount, error) {
	var rowsOut []model.CategoryWithTaskCount
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, categoryListQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.CategoryWithTaskCount])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	res := make([]*model.CategoryWithTaskCount, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a category owned by the user.
func (r *CategoryRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateCategoryRequest,
) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Category
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, categoryGetByIDQuery, id, userID)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
			return e
		}
		args = append(args, id, userID)
		query := "UPDATE categories SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)-1) +
			" AND user_id = $" + strconv.Itoa(len(args)) +
			" RETURNING id, user_id, name, color, description, icon, created_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

func (r *CategoryRepo) buildUpdateClause(req model.UpdateCategoryRequest) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Color != nil {
		setParts = append(setParts, fmt.Sprintf("color = $%d", nextIdx()))
		args = append(args, *req.Color)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.Icon != nil {
		setParts = append(setParts, fmt.Sprintf("icon = $%d", nextIdx()))
		args = append(args, *req.Icon)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

// Delete deletes a category owned by the user. Tasks referencing it keep
// running with a NULL category via the FK's ON DELETE SET NULL.
func (r *CategoryRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const (
	categoryGetByIDQuery = `
		SELECT id, user_id, name, color, description, icon, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2`

	categoryListQuery = `
		SELECT c.id, c.user_id, c.name, c.color, c.description, c.icon, c.created_at,
		       COUNT(t.id) FILTER (WHERE t.status IN ('pending', 'in_progress')) AS task_count
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name ASC`
)

func (r *CategoryRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrCategoryNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrCategoryNameExists
	}
	return err
}
