package infra_postgres_movie

import (
	"database/sql"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	"github.com/lib/pq"
)

// noPoster is how OMDb marks a missing poster.
const noPoster = "N/A"

type MovieDB struct {
	ID      int64          `db:"id"`
	Title   string         `db:"title"`
	Poster  sql.NullString `db:"poster"`
	IMDbID  sql.NullString `db:"imdb_id"`
	Sources pq.StringArray `db:"sources"`
}

// ToDomain treats a NULL sources column as available everywhere.
func (m *MovieDB) ToDomain() model.Candidate {
	poster := m.Poster.String
	if poster == noPoster {
		poster = ""
	}

	availability := model.Availability{}
	for _, src := range model.KnownSources() {
		availability[src] = m.Sources == nil
	}
	for _, raw := range m.Sources {
		if src, err := model.ParseSource(raw); err == nil {
			availability[src] = true
		}
	}

	return model.Candidate{
		ID:           model.CandidateID(m.ID),
		Title:        m.Title,
		Poster:       poster,
		IMDbID:       m.IMDbID.String,
		Availability: availability,
	}
}
