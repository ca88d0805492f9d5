package usecase_session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

var (
	ErrResourceNotFound  = errors.New("no such resource")
	ErrCandidateNotFound = errors.New("no such candidate")
	ErrConflict          = errors.New("concurrent modification")
	ErrRetriesExhausted  = errors.New("retries exhausted")
	ErrPersistence       = errors.New("persistence failure")
	ErrInvalidInput      = errors.New("invalid input")
)

//go:generate mockery --name=SessionStore --output=./mocks/store --filename=store.go
type SessionStore interface {
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	// Update applies fn to the current record and persists the result
	// atomically. It returns ErrConflict if the record changed underneath.
	Update(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error)
}

//go:generate mockery --name=Catalog --output=./mocks/catalog --filename=catalog.go
type Catalog interface {
	AllIDs(ctx context.Context) ([]model.CandidateID, error)
	Get(ctx context.Context, id model.CandidateID) (model.Candidate, error)
}

// Broadcaster must not block; delivery failures stay on its side.
//
//go:generate mockery --name=Broadcaster --output=./mocks/broadcaster --filename=broadcaster.go
type Broadcaster interface {
	Publish(sessionID model.SessionID, matches []model.Candidate)
}

const defaultMaxRetries = 5

type Usecase struct {
	store       SessionStore
	catalog     Catalog
	broadcaster Broadcaster

	logger       *slog.Logger
	maxRetries   int
	shuffle      func([]model.CandidateID)
	shareBaseURL string
	now          func() time.Time
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithMaxRetries(n int) Option {
	return func(u *Usecase) {
		if n > 0 {
			u.maxRetries = n
		}
	}
}

func WithShuffle(shuffle func([]model.CandidateID)) Option {
	return func(u *Usecase) {
		u.shuffle = shuffle
	}
}

func WithShareBaseURL(baseURL string) Option {
	return func(u *Usecase) {
		u.shareBaseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(
	store SessionStore,
	catalog Catalog,
	broadcaster Broadcaster,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		store:       store,
		catalog:     catalog,
		broadcaster: broadcaster,
		logger:      slog.Default(),
		maxRetries:  defaultMaxRetries,
		shuffle:     randomShuffle,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func randomShuffle(ids []model.CandidateID) {
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func (u *Usecase) CreateSession(ctx context.Context, filter model.ServiceFilter) (model.Invitation, error) {
	if len(filter) == 0 {
		filter = model.ServiceFilter(model.KnownSources())
	}
	for _, src := range filter {
		if _, err := model.ParseSource(string(src)); err != nil {
			return model.Invitation{}, errors.Join(ErrInvalidInput, err)
		}
	}

	ids, err := u.catalog.AllIDs(ctx)
	if err != nil {
		return model.Invitation{}, errors.Join(ErrPersistence, err)
	}
	order := make([]model.CandidateID, len(ids))
	copy(order, ids)
	u.shuffle(order)

	s := &model.Session{
		ID:             uuid.NewString(),
		CandidateOrder: order,
		ServiceFilter:  filter,
		Votes:          model.NewBallots(),
		CreatedAt:      u.now().UTC(),
	}
	if err := u.store.Create(ctx, s); err != nil {
		return model.Invitation{}, errors.Join(ErrPersistence, err)
	}

	u.logger.Info("session created",
		slog.String("session_id", s.ID),
		slog.Int("candidates", len(order)),
		slog.Any("services", filter.Strings()),
	)

	return model.Invitation{
		SessionID: s.ID,
		Role:      model.RoleFirst,
		ShareLink: u.shareLink(s.ID, model.RoleSecond),
	}, nil
}

func (u *Usecase) shareLink(id model.SessionID, role model.Role) string {
	return fmt.Sprintf("%s/sessions/%s/%s", u.shareBaseURL, id, role)
}

// NextCandidate returns the first film in the session order that nobody has
// voted on and that passes the service filter. The bool is false once the
// order is exhausted.
func (u *Usecase) NextCandidate(ctx context.Context, id model.SessionID, role model.Role) (model.Candidate, bool, error) {
	if !role.Valid() {
		return model.Candidate{}, false, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}

	s, err := u.load(ctx, id)
	if err != nil {
		return model.Candidate{}, false, err
	}

	for _, cid := range s.CandidateOrder {
		if s.Votes.Voted(cid) {
			continue
		}

		c, err := u.catalog.Get(ctx, cid)
		if err != nil {
			if errors.Is(err, ErrCandidateNotFound) {
				u.logger.Warn("candidate missing from catalog",
					slog.String("session_id", id),
					slog.String("candidate_id", cid.String()),
				)
				continue
			}
			return model.Candidate{}, false, errors.Join(ErrPersistence, err)
		}

		if c.EligibleFor(s.ServiceFilter) {
			return c, true, nil
		}
	}

	return model.Candidate{}, false, nil
}

// RecordVote stores role's verdict on cid and pushes the new match list.
// The broadcast never affects the result.
func (u *Usecase) RecordVote(ctx context.Context, id model.SessionID, role model.Role, cid model.CandidateID, liked bool) error {
	if !role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}

	mutate := func(s *model.Session) error {
		if !s.Contains(cid) {
			return fmt.Errorf("%w: candidate %s is not part of session", ErrInvalidInput, cid)
		}
		s.Votes.Set(role, cid, liked)
		return nil
	}

	var (
		updated *model.Session
		err     error
	)
	for attempt := 1; attempt <= u.maxRetries; attempt++ {
		updated, err = u.store.Update(ctx, id, mutate)
		if err == nil || !errors.Is(err, ErrConflict) {
			break
		}
		u.logger.Debug("vote lost a race, retrying",
			slog.String("session_id", id),
			slog.Int("attempt", attempt),
		)
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrResourceNotFound):
		return ErrResourceNotFound
	case errors.Is(err, ErrInvalidInput):
		return err
	case errors.Is(err, ErrConflict):
		return errors.Join(ErrRetriesExhausted, err)
	default:
		return errors.Join(ErrPersistence, err)
	}

	u.logger.Info("vote recorded",
		slog.String("session_id", id),
		slog.String("role", string(role)),
		slog.String("candidate_id", cid.String()),
		slog.Bool("liked", liked),
	)

	matches, err := u.ComputeMatches(ctx, updated)
	if err != nil {
		u.logger.Error("failed to compute matches, skipping broadcast",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
		return nil
	}
	u.broadcaster.Publish(id, matches)

	return nil
}

// ComputeMatches resolves every candidate both participants liked, in
// session order. Ids missing from the catalog are left out.
func (u *Usecase) ComputeMatches(ctx context.Context, s *model.Session) ([]model.Candidate, error) {
	matches := make([]model.Candidate, 0)
	for _, cid := range s.CandidateOrder {
		if !s.Votes.Liked(cid) {
			continue
		}
		c, err := u.catalog.Get(ctx, cid)
		if err != nil {
			if errors.Is(err, ErrCandidateNotFound) {
				continue
			}
			return nil, err
		}
		matches = append(matches, c)
	}
	return matches, nil
}

func (u *Usecase) Matches(ctx context.Context, id model.SessionID) ([]model.Candidate, error) {
	s, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	matches, err := u.ComputeMatches(ctx, s)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	return matches, nil
}

func (u *Usecase) Exists(ctx context.Context, id model.SessionID) (bool, error) {
	if _, err := u.load(ctx, id); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (u *Usecase) load(ctx context.Context, id model.SessionID) (*model.Session, error) {
	if id == model.EmptySessionID {
		return nil, ErrResourceNotFound
	}

	s, err := u.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errors.Join(ErrPersistence, err)
	}
	return s, nil
}
