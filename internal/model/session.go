package model

import (
	"slices"
	"time"
)

type SessionID = string

const EmptySessionID SessionID = ""

type Votes map[CandidateID]bool

func (v Votes) Clone() Votes {
	out := make(Votes, len(v))
	for id, liked := range v {
		out[id] = liked
	}
	return out
}

type Ballots struct {
	First  Votes `json:"first"`
	Second Votes `json:"second"`
}

func NewBallots() Ballots {
	return Ballots{
		First:  Votes{},
		Second: Votes{},
	}
}

func (b Ballots) For(role Role) Votes {
	switch role {
	case RoleFirst:
		return b.First
	case RoleSecond:
		return b.Second
	}
	return nil
}

// Set overwrites any earlier verdict of role on id.
func (b *Ballots) Set(role Role, id CandidateID, liked bool) {
	switch role {
	case RoleFirst:
		if b.First == nil {
			b.First = Votes{}
		}
		b.First[id] = liked
	case RoleSecond:
		if b.Second == nil {
			b.Second = Votes{}
		}
		b.Second[id] = liked
	}
}

// Voted reports whether either participant has judged id.
func (b Ballots) Voted(id CandidateID) bool {
	_, first := b.First[id]
	_, second := b.Second[id]
	return first || second
}

// Liked reports whether both participants liked id.
func (b Ballots) Liked(id CandidateID) bool {
	return b.First[id] && b.Second[id]
}

func (b Ballots) Clone() Ballots {
	return Ballots{
		First:  b.First.Clone(),
		Second: b.Second.Clone(),
	}
}

type Session struct {
	ID             SessionID     `json:"session_id"`
	CandidateOrder []CandidateID `json:"candidate_order"`
	ServiceFilter  ServiceFilter `json:"service_filter"`
	Votes          Ballots       `json:"votes"`

	// Bumped by the store on every successful update.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{
		ID:             s.ID,
		CandidateOrder: slices.Clone(s.CandidateOrder),
		ServiceFilter:  slices.Clone(s.ServiceFilter),
		Votes:          s.Votes.Clone(),
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
	}
}

func (s *Session) Contains(id CandidateID) bool {
	return slices.Contains(s.CandidateOrder, id)
}

// Invitation is what the creator gets back: their own role plus a link
// for the second participant.
type Invitation struct {
	SessionID SessionID `json:"session_id"`
	Role      Role      `json:"role"`
	ShareLink string    `json:"share_link"`
}
