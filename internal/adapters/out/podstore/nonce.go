package podstore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/pkg/errs"
)

// NonceTTL is how long an unredeemed access grant stays valid.
const NonceTTL = 5 * time.Minute

const nonceLen = 16

// grant binds one nonce to one artifact reference.
type grant struct {
	ref       string
	expiresAt time.Time
}

// nonceGate issues and redeems single-use access nonces. A nonce opens
// exactly the artifact it was granted for, exactly once; redemption consumes
// it whether or not the subsequent read succeeds.
type nonceGate struct {
	mu     sync.Mutex
	grants map[string]grant
	ttl    time.Duration
}

func newNonceGate(ttl time.Duration) *nonceGate {
	return &nonceGate{
		grants: make(map[string]grant),
		ttl:    ttl,
	}
}

// Grant issues a fresh nonce bound to ref.
func (g *nonceGate) Grant(ref string, now time.Time) (string, error) {
	raw := make([]byte, nonceLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	nonce := hex.EncodeToString(raw)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.grants[nonce] = grant{ref: ref, expiresAt: now.Add(g.ttl)}

	return nonce, nil
}

// Redeem consumes the nonce. Unknown, expired, or wrong-artifact nonces fail
// with UnauthorizedError; the message never says which check failed.
func (g *nonceGate) Redeem(ref, nonce string, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	gr, ok := g.grants[nonce]
	if ok {
		delete(g.grants, nonce)
	}

	if !ok || gr.ref != ref || now.After(gr.expiresAt) {
		return errs.NewUnauthorizedError("invalid access nonce")
	}
	return nil
}

// Sweep drops expired unredeemed grants. Returns the number removed.
func (g *nonceGate) Sweep(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for nonce, gr := range g.grants {
		if now.After(gr.expiresAt) {
			delete(g.grants, nonce)
			removed++
		}
	}
	return removed
}
