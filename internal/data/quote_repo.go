package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/neurozen/neurozen/internal/data/pgxutil"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// QuoteRepo provides database operations for daily quotes. Quotes are global,
// one per calendar day.
type QuoteRepo struct {
	DB *sql.DB
}

// NewQuoteRepo creates a new QuoteRepo.
func NewQuoteRepo(db *sql.DB) *QuoteRepo {
	return &QuoteRepo{DB: db}
}

// Create schedules a quote for a day. Returns ErrQuoteDateExists when the
// date is already taken.
func (r *QuoteRepo) Create(
	ctx context.Context,
	req *model.CreateDailyQuoteRequest,
) (*model.DailyQuote, error) {
	if req == nil {
		return nil, errors.New("create daily quote request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var out model.DailyQuote
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO daily_quotes (quote, author, date, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id, quote, author, date, is_active
		`,
			strings.TrimSpace(req.Quote),
			strings.TrimSpace(req.Author),
			req.Date,
			active,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DailyQuote])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrQuoteDateExists
		}
		return nil, err
	}
	return &out, nil
}

// GetByDate retrieves the active quote for a calendar day.
func (r *QuoteRepo) GetByDate(ctx context.Context, date time.Time) (*model.DailyQuote, error) {
	var quote model.DailyQuote
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, quoteGetByDateQuery, date)
		if err != nil {
			return err
		}
		defer rows.Close()
		quote, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DailyQuote])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote by date: %w", err)
	}
	return &quote, nil
}

// GetLatest retrieves the most recent active quote on or before the date.
// Used as a dashboard fallback when no quote is scheduled for today.
func (r *QuoteRepo) GetLatest(ctx context.Context, onOrBefore time.Time) (*model.DailyQuote, error) {
	var quote model.DailyQuote
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, quoteGetLatestQuery, onOrBefore)
		if err != nil {
			return err
		}
		defer rows.Close()
		quote, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DailyQuote])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get latest quote: %w", err)
	}
	return &quote, nil
}

// List retrieves scheduled quotes, newest date first.
func (r *QuoteRepo) List(ctx context.Context, limit, offset int) ([]*model.DailyQuote, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.DailyQuote
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, quoteListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.DailyQuote])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	res := make([]*model.DailyQuote, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a scheduled quote.
func (r *QuoteRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM daily_quotes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete quote: %w", err)
	}
	return rows > 0, nil
}

const (
	quoteGetByDateQuery = `
		SELECT id, quote, author, date, is_active
		FROM daily_quotes
		WHERE date = $1 AND is_active`

	quoteGetLatestQuery = `
		SELECT id, quote, author, date, is_active
		FROM daily_quotes
		WHERE date <= $1 AND is_active
		ORDER BY date DESC
		LIMIT 1`

	quoteListQuery = `
		SELECT id, quote, author, date, is_active
		FROM daily_quotes
		ORDER BY date DESC
		LIMIT $1 OFFSET $2`
)
