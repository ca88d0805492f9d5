package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type ModelUnitSuite struct {
	suite.Suite
}

func (s *ModelUnitSuite) TestServiceFilter(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		names       []string
		expected    ServiceFilter
		expectError bool
	}{
		{
			name:     "Should default to all known sources",
			names:    nil,
			expected: ServiceFilter{SourceNetflix, SourcePrime, SourceDisneyPlus},
		},
		{
			name:     "Should normalise and drop duplicates",
			names:    []string{"Netflix", " netflix ", "prime"},
			expected: ServiceFilter{SourceNetflix, SourcePrime},
		},
		{
			name:        "Should reject unknown source",
			names:       []string{"netflix", "hulu"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			filter, err := NewServiceFilter(tc.names...)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrUnknownSource)
				return
			}
			assert.NoError(t, err)
			assert.Empty(t, cmp.Diff(tc.expected, filter))
		})
	}
}

func (s *ModelUnitSuite) TestEligibility(t provider.T) {
	t.Parallel()

	c := Candidate{
		ID:           1,
		Title:        "A",
		Availability: Availability{SourceNetflix: false, SourcePrime: true},
	}

	assert.True(t, c.EligibleFor(ServiceFilter{SourcePrime}))
	assert.True(t, c.EligibleFor(ServiceFilter{SourceNetflix, SourcePrime}))
	assert.False(t, c.EligibleFor(ServiceFilter{SourceNetflix}))
	assert.False(t, c.EligibleFor(ServiceFilter{SourceDisneyPlus}))
	assert.False(t, c.EligibleFor(nil))
}

func (s *ModelUnitSuite) TestParseRole(t provider.T) {
	t.Parallel()

	for in, expected := range map[string]Role{
		"first":  RoleFirst,
		"user1":  RoleFirst,
		"SECOND": RoleSecond,
		"user2":  RoleSecond,
	} {
		role, err := ParseRole(in)
		assert.NoError(t, err)
		assert.Equal(t, expected, role)
	}

	_, err := ParseRole("third")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func (s *ModelUnitSuite) TestBallots(t provider.T) {
	t.Parallel()

	t.Run("Should overwrite an earlier verdict", func(t provider.T) {
		b := NewBallots()
		b.Set(RoleFirst, 7, true)
		b.Set(RoleFirst, 7, false)

		assert.Len(t, b.First, 1)
		assert.False(t, b.First[7])
		assert.True(t, b.Voted(7))
	})

	t.Run("Should only like what both liked", func(t provider.T) {
		b := NewBallots()
		b.Set(RoleFirst, 1, true)
		b.Set(RoleSecond, 1, true)
		b.Set(RoleSecond, 2, true)
		b.Set(RoleFirst, 3, true)
		b.Set(RoleSecond, 3, false)

		assert.True(t, b.Liked(1))
		assert.False(t, b.Liked(2))
		assert.False(t, b.Liked(3))
		assert.True(t, b.Voted(2))
		assert.False(t, b.Voted(4))
	})

	t.Run("Should set on zero value ballots", func(t provider.T) {
		var b Ballots
		b.Set(RoleSecond, 5, true)
		assert.True(t, b.For(RoleSecond)[5])
		assert.Nil(t, b.For(Role("nobody")))
	})
}

func (s *ModelUnitSuite) TestSessionClone(t provider.T) {
	t.Parallel()

	orig := &Session{
		ID:             "s",
		CandidateOrder: []CandidateID{1, 2},
		ServiceFilter:  ServiceFilter{SourceNetflix},
		Votes:          NewBallots(),
		CreatedAt:      time.Unix(100, 0),
	}
	orig.Votes.Set(RoleFirst, 1, true)

	cp := orig.Clone()
	assert.Empty(t, cmp.Diff(orig, cp))

	cp.Votes.Set(RoleSecond, 2, true)
	cp.CandidateOrder[0] = 9
	assert.Empty(t, orig.Votes.Second)
	assert.Equal(t, CandidateID(1), orig.CandidateOrder[0])
}

func (s *ModelUnitSuite) TestSessionJSONLayout(t provider.T) {
	t.Parallel()

	sess := &Session{
		ID:             "abc",
		CandidateOrder: []CandidateID{3, 1},
		ServiceFilter:  ServiceFilter{SourcePrime},
		Votes:          NewBallots(),
	}
	sess.Votes.Set(RoleFirst, 3, true)

	data, err := json.Marshal(sess)
	assert.NoError(t, err)

	var raw map[string]any
	assert.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "abc", raw["session_id"])
	assert.Equal(t, []any{float64(3), float64(1)}, raw["candidate_order"])
	assert.Equal(t, []any{"prime"}, raw["service_filter"])
	assert.Equal(t, map[string]any{
		"first":  map[string]any{"3": true},
		"second": map[string]any{},
	}, raw["votes"])
}

func (s *ModelUnitSuite) TestCandidateIDJSON(t provider.T) {
	t.Parallel()

	var body struct {
		A CandidateID `json:"a"`
		B CandidateID `json:"b"`
	}
	assert.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "34"}`), &body))
	assert.Equal(t, CandidateID(12), body.A)
	assert.Equal(t, CandidateID(34), body.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "x"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &body))
}

func (s *ModelUnitSuite) TestMatchesEvent(t provider.T) {
	t.Parallel()

	data, err := json.Marshal(NewMatchesEvent("abc", nil))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"update_matches","session_id":"abc","payload":[]}`, string(data))
}

func TestModelUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(ModelUnitSuite))
}
