package store

import (
	"context"
	"log"
	"sync"
	"time"

	"statusboard/internal/domain"
	"statusboard/internal/infrastructure/repository"
)

// PresenceTracker records viewing-browser heartbeats, independent of device
// state. Every call prunes expired sessions inline; there is no background
// scheduler.
type PresenceTracker struct {
	mu       sync.Mutex
	sessions []domain.SessionRecord
	snap     repository.Snapshot
	timeout  time.Duration
}

func NewPresenceTracker(snap repository.Snapshot, timeout time.Duration) *PresenceTracker {
	sessions, err := snap.LoadSessions(context.Background())
	if err != nil {
		log.Printf("session snapshot load failed, starting empty: %v", err)
		sessions = nil
	}
	return &PresenceTracker{
		sessions: sessions,
		snap:     snap,
		timeout:  timeout,
	}
}

// Heartbeat upserts the session, prunes expired ones, persists and returns
// the surviving session count.
func (p *PresenceTracker) Heartbeat(ctx context.Context, sessionID, ip, userAgent string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now().Unix()
	rec := domain.SessionRecord{
		SessionID:  sessionID,
		LastActive: now,
		IP:         ip,
		UserAgent:  userAgent,
	}
	found := false
	for i := range p.sessions {
		if p.sessions[i].SessionID == sessionID {
			p.sessions[i] = rec
			found = true
			break
		}
	}
	if !found {
		p.sessions = append(p.sessions, rec)
	}
	p.pruneLocked(now)
	if err := p.snap.SaveSessions(ctx, p.sessions); err != nil {
		return 0, err
	}
	return len(p.sessions), nil
}

// Count prunes and returns the number of live sessions.
func (p *PresenceTracker) Count(ctx context.Context) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if removed := p.pruneLocked(time.Now().Unix()); removed > 0 {
		if err := p.snap.SaveSessions(ctx, p.sessions); err != nil {
			log.Printf("session snapshot save after prune failed: %v", err)
		}
	}
	return len(p.sessions)
}

func (p *PresenceTracker) pruneLocked(now int64) int {
	timeoutSecs := int64(p.timeout / time.Second)
	kept := p.sessions[:0]
	for _, s := range p.sessions {
		if now-s.LastActive < timeoutSecs {
			kept = append(kept, s)
		}
	}
	removed := len(p.sessions) - len(kept)
	p.sessions = kept
	return removed
}
