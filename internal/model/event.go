package model

const EventUpdateMatches = "update_matches"

// MatchesEvent is pushed to everyone watching a session after each vote.
type MatchesEvent struct {
	Type      string      `json:"type"`
	SessionID SessionID   `json:"session_id"`
	Payload   []Candidate `json:"payload"`
}

func NewMatchesEvent(id SessionID, matches []Candidate) MatchesEvent {
	if matches == nil {
		matches = []Candidate{}
	}
	return MatchesEvent{
		Type:      EventUpdateMatches,
		SessionID: id,
		Payload:   matches,
	}
}
