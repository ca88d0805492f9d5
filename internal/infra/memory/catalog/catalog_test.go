package infra_memory_catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/humanbelnik/kinoswap/duo/internal/infra/memory/catalog/mocks"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type CatalogUnitSuite struct {
	suite.Suite
}

func validCandidates() []model.Candidate {
	return []model.Candidate{
		{ID: 30, Title: "C", Availability: model.Availability{model.SourcePrime: true}},
		{ID: 10, Title: "A", Availability: model.Availability{model.SourceNetflix: true}},
		{ID: 20, Title: "B", Poster: "http://example.com/b.jpg"},
	}
}

func (s *CatalogUnitSuite) TestReplace(t provider.T) {
	t.Parallel()
	ctx := context.Background()

	c := New()
	c.Replace(validCandidates())

	ids, err := c.AllIDs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []model.CandidateID{10, 20, 30}, ids)
	assert.Equal(t, 3, c.Len())

	cand, err := c.Get(ctx, 20)
	assert.NoError(t, err)
	assert.Equal(t, "B", cand.Title)

	_, err = c.Get(ctx, 99)
	assert.ErrorIs(t, err, usecase_session.ErrCandidateNotFound)
}

func (s *CatalogUnitSuite) TestSnapshotIsolation(t provider.T) {
	t.Parallel()
	ctx := context.Background()

	c := New()
	c.Replace(validCandidates())

	ids, _ := c.AllIDs(ctx)
	ids[0] = 999

	cand, _ := c.Get(ctx, 10)
	cand.Availability[model.SourceNetflix] = false

	again, _ := c.AllIDs(ctx)
	assert.Equal(t, model.CandidateID(10), again[0])

	fresh, _ := c.Get(ctx, 10)
	assert.True(t, fresh.Availability[model.SourceNetflix])
}

func (s *CatalogUnitSuite) TestRefresh(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		setupMocks  func(l *mocks.Loader)
		expectedLen int
		expectError bool
	}{
		{
			name: "Should swap snapshot on successful load",
			setupMocks: func(l *mocks.Loader) {
				l.On("Load", context.Background()).Return(validCandidates(), nil).Once()
			},
			expectedLen: 3,
		},
		{
			name: "Should keep previous snapshot when load fails",
			setupMocks: func(l *mocks.Loader) {
				l.On("Load", context.Background()).Return(nil, errors.New("db down")).Once()
			},
			expectedLen: 1,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			loader := mocks.NewLoader(t)
			tc.setupMocks(loader)

			c := New(WithLoader(loader))
			c.Replace([]model.Candidate{{ID: 1, Title: "old"}})

			err := c.Refresh(context.Background())
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectedLen, c.Len())
		})
	}
}

func (s *CatalogUnitSuite) TestRefreshWithoutLoader(t provider.T) {
	t.Parallel()

	err := New().Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoLoader)
}

func TestCatalogUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(CatalogUnitSuite))
}
