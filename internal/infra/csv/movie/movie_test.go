package infra_csv_movie

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type CSVMovieUnitSuite struct {
	suite.Suite
}

func everywhere() model.Availability {
	return model.Availability{model.SourceNetflix: true, model.SourcePrime: true, model.SourceDisneyPlus: true}
}

func (s *CSVMovieUnitSuite) TestParse(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		input         string
		expected      []model.Candidate
		expectError   bool
		errorContains string
	}{
		{
			name:  "Should read minimal seed",
			input: "id,title\n1,Heat\n2,\"Crouching Tiger, Hidden Dragon\"\n",
			expected: []model.Candidate{
				{ID: 1, Title: "Heat", Availability: everywhere()},
				{ID: 2, Title: "Crouching Tiger, Hidden Dragon", Availability: everywhere()},
			},
		},
		{
			name: "Should read full layout",
			input: "id,title,poster,imdb_id,netflix,prime,disney_plus\n" +
				"1,Heat,http://img/heat.jpg,tt0113277,true,false,0\n" +
				"2,Alien,N/A,,no,,yes\n",
			expected: []model.Candidate{
				{
					ID: 1, Title: "Heat", Poster: "http://img/heat.jpg", IMDbID: "tt0113277",
					Availability: model.Availability{model.SourceNetflix: true, model.SourcePrime: false, model.SourceDisneyPlus: false},
				},
				{
					ID: 2, Title: "Alien",
					Availability: model.Availability{model.SourceNetflix: false, model.SourcePrime: false, model.SourceDisneyPlus: true},
				},
			},
		},
		{
			name:  "Should tolerate reordered columns and short rows",
			input: "title,netflix,id\nUp,1,3\nCoco,0,4,extra\n",
			expected: []model.Candidate{
				{ID: 3, Title: "Up", Availability: model.Availability{model.SourceNetflix: true, model.SourcePrime: true, model.SourceDisneyPlus: true}},
				{ID: 4, Title: "Coco", Availability: model.Availability{model.SourceNetflix: false, model.SourcePrime: true, model.SourceDisneyPlus: true}},
			},
		},
		{
			name:     "Should return empty list for empty input",
			input:    "",
			expected: []model.Candidate{},
		},
		{
			name:          "Should reject missing id column",
			input:         "title\nHeat\n",
			expectError:   true,
			errorContains: "missing required column: id",
		},
		{
			name:          "Should reject non numeric id",
			input:         "id,title\nabc,Heat\n",
			expectError:   true,
			errorContains: "line 2",
		},
		{
			name:          "Should reject bad availability flag",
			input:         "id,title,prime\n1,Heat,maybe\n",
			expectError:   true,
			errorContains: "column prime",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()

			movies, err := Parse(context.Background(), strings.NewReader(tc.input))

			if tc.expectError {
				assert.ErrorContains(t, err, tc.errorContains)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, movies)
		})
	}
}

func (s *CSVMovieUnitSuite) TestLoadFromFile(t provider.T) {
	t.Parallel()

	dir, err := os.MkdirTemp("", "movies")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "movies.csv")
	assert.NoError(t, os.WriteFile(path, []byte("id,title\n1,Heat\n"), 0o600))

	movies, err := New(path).Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, movies, 1)

	_, err = New(filepath.Join(dir, "absent.csv")).Load(context.Background())
	assert.ErrorContains(t, err, "failed to open movies file")
}

func TestCSVMovieUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(CSVMovieUnitSuite))
}
