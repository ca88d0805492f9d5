package infra_csv_movie

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

var ErrMissingColumn = errors.New("missing required column")

const noPoster = "N/A"

// Repository reads the catalog seed file. The file is reopened on every
// Load so edits are picked up by the next refresh.
type Repository struct {
	path string
}

func New(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) Load(ctx context.Context) ([]model.Candidate, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open movies file: %w", err)
	}
	defer f.Close()

	return Parse(ctx, f)
}

// Parse expects a header row. Only id and title are required; a source
// column that is absent marks every film as available there.
func Parse(ctx context.Context, in io.Reader) ([]model.Candidate, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.Candidate{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "title"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, name string) (string, bool) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", ok
		}
		return strings.TrimSpace(record[i]), true
	}

	movies := []model.Candidate{}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rawID, _ := field(record, "id")
		id, err := model.ParseCandidateID(rawID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		title, _ := field(record, "title")

		poster, _ := field(record, "poster")
		if poster == noPoster {
			poster = ""
		}
		imdbID, _ := field(record, "imdb_id")

		availability := model.Availability{}
		for _, src := range model.KnownSources() {
			raw, present := field(record, string(src))
			if !present {
				availability[src] = true
				continue
			}
			available, err := parseFlag(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, src, err)
			}
			availability[src] = available
		}

		movies = append(movies, model.Candidate{
			ID:           id,
			Title:        title,
			Poster:       poster,
			IMDbID:       imdbID,
			Availability: availability,
		})
	}

	return movies, nil
}

func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "":
		return false, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
