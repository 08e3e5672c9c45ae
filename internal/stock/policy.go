package stock

import (
	"time"

	"github.com/ppiankov/restock/internal/cache"
)

// ShouldAlert is the point where "available" becomes "notify now"
func ShouldAlert(result Result) bool {
	return result.Verdict == InStock
}

// AlertPolicy decides whether a classification should produce a notification.
// Sent is called after a notification went out.
type AlertPolicy interface {
	ShouldAlert(result Result) bool
	Sent(result Result)
}

// ImmediatePolicy alerts on every in-stock verdict. Used for single checks.
type ImmediatePolicy struct{}

func (ImmediatePolicy) ShouldAlert(result Result) bool { return ShouldAlert(result) }

func (ImmediatePolicy) Sent(Result) {}

// CooldownPolicy alerts on an in-stock verdict unless an alert for the same
// key went out within the cooldown window. State lives only in process memory.
type CooldownPolicy struct {
	store    cache.Cache
	key      string
	cooldown time.Duration
}

// NewCooldownPolicy creates a cooldown policy for the given target URL
func NewCooldownPolicy(store cache.Cache, targetURL string, cooldown time.Duration) *CooldownPolicy {
	return &CooldownPolicy{
		store:    store,
		key:      cache.Key("alert", targetURL),
		cooldown: cooldown,
	}
}

func (p *CooldownPolicy) ShouldAlert(result Result) bool {
	if !ShouldAlert(result) {
		return false
	}
	if p.cooldown <= 0 {
		return true
	}
	_, recent := p.store.Get(p.key)
	return !recent
}

func (p *CooldownPolicy) Sent(Result) {
	if p.cooldown <= 0 {
		return
	}
	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	_ = p.store.Set(p.key, stamp, p.cooldown)
}
