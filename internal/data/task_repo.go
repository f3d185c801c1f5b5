package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/neurozen/neurozen/internal/data/database"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"

	defaultListLimit = 50
)

// TaskRepo provides database operations for tasks.
type TaskRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTaskRepo creates a new TaskRepo with real time provider.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTaskRepoWithTimeProvider creates a new TaskRepo with a custom time provider (useful for tests).
func NewTaskRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TaskRepo {
	return &TaskRepo{DB: db, timeProvider: tp}
}

// Create inserts a new task for the user.
func (r *TaskRepo) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, errors.New("create task request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Task
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO tasks (user_id, title, description, due_date, status, priority, category_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, user_id, title, description, due_date, status, priority, category_id, created_at, updated_at
		`,
			req.UserID,
			strings.TrimSpace(req.Title),
			req.Description,
			req.DueDate,
			req.Status,
			req.Priority,
			req.CategoryID,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a task owned by the user.
func (r *TaskRepo) GetByID(ctx context.Context, userID, id string) (*model.Task, error) {
	var task model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, taskGetByIDQuery, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		task, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task by ID: %w", err)
	}
	return &task, nil
}

// ListWithOptions retrieves the user's tasks with category labels, applying
// optional filters and sorting.
func (r *TaskRepo) ListWithOptions(
	ctx context.Context,
	opts model.TasksListOptions,
) ([]*model.TaskWithCategory, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	queryOpts := r.buildTaskQueryOptions(opts, limit, offset)
	query, args := database.BuildListQuery(queryOpts)

	var rowsOut []model.TaskWithCategory
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TaskWithCategory])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	res := make([]*model.TaskWithCategory, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountByStatus returns the user's task counts keyed by status.
func (r *TaskRepo) CountByStatus(ctx context.Context, userID string) (map[model.TaskStatus]int, error) {
	counts := make(map[model.TaskStatus]int, 4)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status model.TaskStatus
			var n int
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			counts[status] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	return counts, nil
}

// Update updates fields of a task owned by the user. Changing the status to
// completed or back also touches updated_at through the SET clause.
func (r *TaskRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateTaskRequest,
) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, taskGetByIDQuery, id, userID)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
			return e
		}
		args = append(args, id, userID)
		query := "UPDATE tasks SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)-1) +
			" AND user_id = $" + strconv.Itoa(len(args)) +
			" RETURNING id, user_id, title, description, due_date, status, priority, category_id, created_at, updated_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a task.
func (r *TaskRepo) buildUpdateClause(req model.UpdateTaskRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	switch {
	case req.ClearDue:
		setParts = append(setParts, "due_date = NULL")
	case req.DueDate != nil:
		setParts = append(setParts, fmt.Sprintf("due_date = $%d", nextIdx()))
		args = append(args, *req.DueDate)
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.Priority != nil {
		setParts = append(setParts, fmt.Sprintf("priority = $%d", nextIdx()))
		args = append(args, *req.Priority)
	}
	if req.CategoryID != nil {
		if strings.TrimSpace(*req.CategoryID) == "" {
			setParts = append(setParts, "category_id = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("category_id = $%d", nextIdx()))
			args = append(args, *req.CategoryID)
		}
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a task owned by the user.
func (r *TaskRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const taskGetByIDQuery = `
	SELECT id, user_id, title, description, due_date, status, priority, category_id, created_at, updated_at
	FROM tasks
	WHERE id = $1 AND user_id = $2`

// taskColumns returns the column list for joined task queries. Category
// columns come from the LEFT JOIN and are NULL for uncategorized tasks.
func taskColumns() []string {
	return []string{
		"t.id",
		"t.user_id",
		"t.title",
		"t.description",
		"t.due_date",
		"t.status",
		"t.priority",
		"t.category_id",
		"t.created_at",
		"t.updated_at",
		"c.name AS category_name",
		"c.color AS category_color",
	}
}

// buildTaskQueryOptions builds query options for task listing with filters and sorting.
func (r *TaskRepo) buildTaskQueryOptions(
	opts model.TasksListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(taskColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithCondition(database.WhereCond("t.user_id", database.Equal, opts.UserID)),
	}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("t.title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("t.status", database.Equal, *opts.Status),
		))
	}
	if opts.Priority != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("t.priority", database.Equal, *opts.Priority),
		))
	}
	if opts.CategoryID != nil && strings.TrimSpace(*opts.CategoryID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("t.category_id", database.Equal, strings.TrimSpace(*opts.CategoryID)),
		))
	}

	sortCol, sortDir := validateTaskSortOptions(opts.Sort, opts.Dir)
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions(
		"tasks t LEFT JOIN categories c ON c.id = t.category_id",
		queryOpts...,
	)
}

// validateTaskSortOptions validates and returns safe sort column and direction.
func validateTaskSortOptions(sort, dir string) (string, string) {
	sortCol := "t.created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"created_at": "t.created_at",
			"due_date":   "t.due_date",
			"priority":   "t.priority",
			"title":      "t.title",
		}
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}
