package http_session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

// CreateSessionRequestDTO
type CreateSessionRequestDTO struct {
	Services []string `json:"services" example:"netflix,prime"`
}

// CreateSessionResponseDTO
type CreateSessionResponseDTO struct {
	SessionID string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Role      string `json:"role" example:"first"`
	ShareLink string `json:"share_link" example:"https://duo.example.com/sessions/550e8400-e29b-41d4-a716-446655440000/second"`
}

// NextCandidateResponseDTO carries a null candidate once the list is exhausted.
type NextCandidateResponseDTO struct {
	Candidate *model.Candidate `json:"candidate"`
	Done      bool             `json:"done"`
}

// VoteRequestDTO
type VoteRequestDTO struct {
	FilmID *model.CandidateID `json:"film_id" swaggertype:"integer" example:"12"`
	Vote   *FlexibleBool      `json:"vote" swaggertype:"boolean" example:"true"`
}

// VoteResponseDTO
type VoteResponseDTO struct {
	Success bool `json:"success" example:"true"`
}

// MatchesResponseDTO
type MatchesResponseDTO struct {
	Matches []model.Candidate `json:"matches"`
}

// FlexibleBool accepts true/false as well as their string forms.
type FlexibleBool bool

func (b *FlexibleBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid vote %q", s)
		}
		*b = FlexibleBool(v)
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid vote %s", data)
	}
	*b = FlexibleBool(v)
	return nil
}
