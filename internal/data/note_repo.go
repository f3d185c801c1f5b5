package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// NoteRepo provides database operations for notes.
type NoteRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNoteRepo creates a new NoteRepo with real time provider.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNoteRepoWithTimeProvider creates a new NoteRepo with a custom time provider (useful for tests).
func NewNoteRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NoteRepo {
	return &NoteRepo{DB: db, timeProvider: tp}
}

// Create inserts a new note for the user.
func (r *NoteRepo) Create(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error) {
	if req == nil {
		return nil, errors.New("create note request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Note
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO notes (user_id, title, content, is_pinned, color, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, user_id, title, content, is_pinned, color, created_at, updated_at
		`,
			req.UserID,
			strings.TrimSpace(req.Title),
			req.Content,
			req.IsPinned,
			req.Color,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Note])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a note owned by the user.
func (r *NoteRepo) GetByID(ctx context.Context, userID, id string) (*model.Note, error) {
	var note model.Note
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, noteGetByIDQuery, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		note, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Note])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID: %w", err)
	}
	return &note, nil
}

// ListWithOptions retrieves the user's notes, pinned first then newest. The
// search term matches title or content, so the WHERE clause is built by hand
// instead of through the list-query builder, which only ANDs conditions.
func (r *NoteRepo) ListWithOptions(
	ctx context.Context,
	opts model.NotesListOptions,
) ([]*model.Note, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	args := []any{opts.UserID}
	var where strings.Builder
	where.WriteString("user_id = $1")
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		idx := strconv.Itoa(len(args))
		where.WriteString(" AND (title ILIKE $" + idx + " OR content ILIKE $" + idx + ")")
	}
	args = append(args, limit, offset)
	query := `
		SELECT id, user_id, title, content, is_pinned, color, created_at, updated_at
		FROM notes
		WHERE ` + where.String() + `
		ORDER BY is_pinned DESC, updated_at DESC
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var rowsOut []model.Note
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Note])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	res := make([]*model.Note, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a note owned by the user.
func (r *NoteRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateNoteRequest,
) (*model.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Note
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, noteGetByIDQuery, id, userID)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Note])
			return e
		}
		args = append(args, id, userID)
		query := "UPDATE notes SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)-1) +
			" AND user_id = $" + strconv.Itoa(len(args)) +
			" RETURNING id, user_id, title, content, is_pinned, color, created_at, updated_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Note])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *NoteRepo) buildUpdateClause(req model.UpdateNoteRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Content != nil {
		setParts = append(setParts, fmt.Sprintf("content = $%d", nextIdx()))
		args = append(args, *req.Content)
	}
	if req.IsPinned != nil {
		setParts = append(setParts, fmt.Sprintf("is_pinned = $%d", nextIdx()))
		args = append(args, *req.IsPinned)
	}
	if req.Color != nil {
		setParts = append(setParts, fmt.Sprintf("color = $%d", nextIdx()))
		args = append(args, *req.Color)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a note owned by the user.
func (r *NoteRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	return rows > 0, nil
}

const noteGetByIDQuery = `
	SELECT id, user_id, title, content, is_pinned, color, created_at, updated_at
	FROM notes
	WHERE id = $1 AND user_id = $2`
