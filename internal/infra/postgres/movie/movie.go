package infra_postgres_movie

import (
	"context"
	"fmt"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	"github.com/jmoiron/sqlx"
)

// Repository reads the pre-populated movies table. It feeds the in-memory
// catalog and is never queried per request.
type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Load(ctx context.Context) ([]model.Candidate, error) {
	query := `
		SELECT id, title, poster, imdb_id, sources
		FROM movies
		ORDER BY id
	`

	var moviesDB []MovieDB
	err := r.db.SelectContext(ctx, &moviesDB, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}

	movies := make([]model.Candidate, len(moviesDB))
	for i, movieDB := range moviesDB {
		movies[i] = movieDB.ToDomain()
	}

	return movies, nil
}
