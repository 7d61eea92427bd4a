package repofakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hospitalmgmt/auth-service/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo. A single mutex stands in for
// the row-level atomicity a real database provides, so the consume and bulk
// revoke semantics match the Postgres implementation.
type FakeSessionRepo struct {
	byHash map[string]*sessions.RefreshSession
	lock   sync.Mutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		byHash: make(map[string]*sessions.RefreshSession),
	}
}

func (r *FakeSessionRepo) Create(_ context.Context, session *sessions.RefreshSession) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byHash[session.TokenHash]; ok {
		return sessions.ErrHashConflict
	}
	cp := *session
	r.byHash[session.TokenHash] = &cp
	return nil
}

func (r *FakeSessionRepo) FindActiveByHash(_ context.Context, tokenHash string, now time.Time) (*sessions.RefreshSession, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	session, ok := r.byHash[tokenHash]
	if !ok || !session.Active(now) {
		return nil, sessions.ErrNoActiveSession
	}
	cp := *session
	return &cp, nil
}

func (r *FakeSessionRepo) FindActiveByUserID(_ context.Context, userID uuid.UUID, now time.Time) ([]*sessions.RefreshSession, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []*sessions.RefreshSession
	for _, session := range r.byHash {
		if session.UserID == userID && session.Active(now) {
			cp := *session
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *FakeSessionRepo) ConsumeByHash(_ context.Context, tokenHash string, now time.Time) (*sessions.RefreshSession, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	session, ok := r.byHash[tokenHash]
	if !ok || !session.Active(now) {
		return nil, sessions.ErrNoActiveSession
	}
	revokedAt := now
	session.Revoked = true
	session.RevokedAt = &revokedAt
	cp := *session
	return &cp, nil
}

func (r *FakeSessionRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID, now time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, session := range r.byHash {
		if session.UserID == userID && !session.Revoked {
			revokedAt := now
			session.Revoked = true
			session.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (r *FakeSessionRepo) PurgeReclaimable(_ context.Context, now time.Time) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var purged int64
	for hash, session := range r.byHash {
		if session.Reclaimable(now) {
			delete(r.byHash, hash)
			purged++
		}
	}
	return purged, nil
}
