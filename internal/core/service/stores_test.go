package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub user profile store
// ---------------------------------------------------------------------------

type stubUserStore struct {
	profiles map[int64]domain.UserProfile
	hashes   map[string]string // username -> bcrypt hash
	nextID   int64
	failErr  error // if set, every call returns this error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		profiles: make(map[int64]domain.UserProfile),
		hashes:   make(map[string]string),
		nextID:   1,
	}
}

// seed inserts a profile with the given plaintext password and returns its id.
func (s *stubUserStore) seed(profile domain.UserProfile, password string) int64 {
	profile.ID = s.nextID
	s.nextID++
	s.profiles[profile.ID] = profile
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.hashes[profile.Username] = string(hash)
	return profile.ID
}

func (s *stubUserStore) ExistsID(_ context.Context, id int64) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	_, ok := s.profiles[id]
	return ok, nil
}

func (s *stubUserStore) ExistsUsername(_ context.Context, username string) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	for _, p := range s.profiles {
		if p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserStore) ExistsEmail(_ context.Context, email string) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	for _, p := range s.profiles {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserStore) PasswordHashByUsername(_ context.Context, username string) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	hash, ok := s.hashes[username]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return hash, nil
}

func (s *stubUserStore) ByID(_ context.Context, id int64) (domain.UserProfile, error) {
	if s.failErr != nil {
		return domain.UserProfile{}, s.failErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	return p, nil
}

func (s *stubUserStore) ByUsername(_ context.Context, username string) (domain.UserProfile, error) {
	if s.failErr != nil {
		return domain.UserProfile{}, s.failErr
	}
	for _, p := range s.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return domain.UserProfile{}, domain.ErrUserNotFound
}

func (s *stubUserStore) ListByRole(_ context.Context, role domain.UserRole) ([]domain.UserProfile, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	var out []domain.UserProfile
	for _, p := range s.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubUserStore) Save(_ context.Context, profile domain.UserProfile) (int64, error) {
	if s.failErr != nil {
		return 0, s.failErr
	}
	if profile.ID == domain.NullID {
		profile.ID = s.nextID
		s.nextID++
	}
	s.profiles[profile.ID] = profile
	return profile.ID, nil
}

// ---------------------------------------------------------------------------
// In-memory stub reimbursement store
// ---------------------------------------------------------------------------

// stubReimbStore guards its map with a mutex so that the resolution race is
// a real race between goroutines, with Resolve acting as the compare-and-set.
type stubReimbStore struct {
	mu       sync.Mutex
	requests map[int64]domain.ReimbursementRequest
	nextID   int64
	failErr  error
}

func newStubReimbStore() *stubReimbStore {
	return &stubReimbStore{
		requests: make(map[int64]domain.ReimbursementRequest),
		nextID:   1,
	}
}

func (s *stubReimbStore) Query(_ context.Context, filter ports.QueryFilter) ([]domain.ReimbursementRequest, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ReimbursementRequest
	for _, r := range s.requests {
		if filter.AuthorID != ports.AnyAuthor && r.AuthorID != filter.AuthorID {
			continue
		}
		switch filter.Status {
		case ports.FilterPending:
			if r.Status != domain.StatusPending {
				continue
			}
		case ports.FilterResolved:
			if r.Status != domain.StatusApproved && r.Status != domain.StatusDenied {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubReimbStore) Exists(_ context.Context, id int64) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.requests[id]
	return ok, nil
}

func (s *stubReimbStore) ByID(_ context.Context, id int64) (domain.ReimbursementRequest, error) {
	if s.failErr != nil {
		return domain.ReimbursementRequest{}, s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return domain.ReimbursementRequest{}, domain.ErrRequestNotFound
	}
	return r, nil
}

func (s *stubReimbStore) Save(_ context.Context, req domain.ReimbursementRequest) (int64, error) {
	if s.failErr != nil {
		return 0, s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == domain.NullID {
		req.ID = s.nextID
		s.nextID++
	}
	s.requests[req.ID] = req
	return req.ID, nil
}

func (s *stubReimbStore) Resolve(_ context.Context, id int64, status domain.ReimbursementStatus, resolverID int64, at time.Time) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if r.Status != domain.StatusPending {
		return domain.ErrRequestNotPending
	}
	r.Status = status
	r.ResolverID = resolverID
	resolvedAt := at
	r.ResolvedAt = &resolvedAt
	s.requests[id] = r
	return nil
}
