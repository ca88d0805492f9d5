package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type CandidateID int64

func (id CandidateID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseCandidateID(s string) (CandidateID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid candidate id %q: %w", s, err)
	}
	return CandidateID(v), nil
}

// UnmarshalJSON takes both 42 and "42".
func (id *CandidateID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseCandidateID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid candidate id %s: %w", data, err)
	}
	*id = CandidateID(v)
	return nil
}

// Candidate is a film offered for voting.
type Candidate struct {
	ID           CandidateID  `json:"id"`
	Title        string       `json:"title"`
	Poster       string       `json:"poster,omitempty"`
	IMDbID       string       `json:"imdb_id,omitempty"`
	Availability Availability `json:"availability"`
}

func (c Candidate) EligibleFor(filter ServiceFilter) bool {
	return c.Availability.Any(filter)
}
