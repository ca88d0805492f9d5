package infra_postgres_session

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	"github.com/lib/pq"
)

// ballotsJSON maps model.Ballots onto a jsonb column.
type ballotsJSON model.Ballots

func (b ballotsJSON) Value() (driver.Value, error) {
	return json.Marshal(model.Ballots(b))
}

func (b *ballotsJSON) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*b = ballotsJSON(model.NewBallots())
		return nil
	default:
		return fmt.Errorf("unsupported votes column type %T", src)
	}

	var ballots model.Ballots
	if err := json.Unmarshal(data, &ballots); err != nil {
		return err
	}
	if ballots.First == nil {
		ballots.First = model.Votes{}
	}
	if ballots.Second == nil {
		ballots.Second = model.Votes{}
	}
	*b = ballotsJSON(ballots)
	return nil
}

type SessionDB struct {
	ID             string         `db:"id"`
	CandidateOrder pq.Int64Array  `db:"candidate_order"`
	ServiceFilter  pq.StringArray `db:"service_filter"`
	Votes          ballotsJSON    `db:"votes"`
	Version        int64          `db:"version"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (s *SessionDB) ToDomain() *model.Session {
	order := make([]model.CandidateID, len(s.CandidateOrder))
	for i, id := range s.CandidateOrder {
		order[i] = model.CandidateID(id)
	}
	filter := make(model.ServiceFilter, len(s.ServiceFilter))
	for i, src := range s.ServiceFilter {
		filter[i] = model.Source(src)
	}

	return &model.Session{
		ID:             s.ID,
		CandidateOrder: order,
		ServiceFilter:  filter,
		Votes:          model.Ballots(s.Votes).Clone(),
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
	}
}

func FromDomain(s *model.Session) SessionDB {
	order := make(pq.Int64Array, len(s.CandidateOrder))
	for i, id := range s.CandidateOrder {
		order[i] = int64(id)
	}

	return SessionDB{
		ID:             s.ID,
		CandidateOrder: order,
		ServiceFilter:  pq.StringArray(s.ServiceFilter.Strings()),
		Votes:          ballotsJSON(s.Votes),
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
	}
}
