package infra_postgres_session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
	"github.com/jmoiron/sqlx"
)

var ErrAlreadyExists = errors.New("session already exists")

// Driver keeps sessions in the sessions table. Update is a compare-and-swap
// on the version column.
type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

func (d *Driver) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	query := `
		SELECT id, candidate_order, service_filter, votes, version, created_at
		FROM sessions
		WHERE id = $1
	`

	var dto SessionDB
	err := d.db.GetContext(ctx, &dto, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase_session.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return dto.ToDomain(), nil
}

func (d *Driver) Create(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (id, candidate_order, service_filter, votes, version, created_at)
		VALUES (:id, :candidate_order, :service_filter, :votes, :version, :created_at)
	`

	_, err := d.db.NamedExecContext(ctx, query, FromDomain(s))
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, s.ID)
		}
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (d *Driver) Update(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error) {
	s, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := s.Version
	if err := fn(s); err != nil {
		return nil, err
	}
	s.Version = seen + 1

	query := `
		UPDATE sessions
		SET votes = $1, version = $2
		WHERE id = $3 AND version = $4
	`

	result, err := d.db.ExecContext(ctx, query, ballotsJSON(s.Votes), s.Version, id, seen)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, usecase_session.ErrConflict
	}

	return s, nil
}

// DeleteExpired drops sessions created before cutoff.
func (d *Driver) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE created_at < $1`

	result, err := d.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
