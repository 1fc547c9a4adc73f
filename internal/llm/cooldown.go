package llm

import (
	"regexp"
	"strconv"
	"sync"
	"time"
)

// DefaultCooldown is applied when a quota error does not carry a retry hint.
const DefaultCooldown = 60 * time.Second

var retryHintRe = regexp.MustCompile(`(?i)retry in (\d+(?:\.\d+)?)s`)

// Cooldown gates calls to a quota-limited provider. After a quota error the
// gate stays closed until the provider's suggested retry time has passed.
// The clock is injectable so tests can drive it deterministically.
type Cooldown struct {
	mu    sync.Mutex
	until time.Time
	now   func() time.Time
}

// NewCooldown creates a Cooldown using the wall clock.
func NewCooldown() *Cooldown {
	return NewCooldownWithClock(time.Now)
}

// NewCooldownWithClock creates a Cooldown with a custom clock.
func NewCooldownWithClock(now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{now: now}
}

// Allow reports whether a call may proceed.
func (c *Cooldown) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.now().Before(c.until)
}

// Trip closes the gate for the duration suggested by the provider error
// message ("retry in Ns"), or DefaultCooldown when no hint is present.
// Returns the applied duration.
func (c *Cooldown) Trip(err error) time.Duration {
	d := DefaultCooldown
	if err != nil {
		if m := retryHintRe.FindStringSubmatch(err.Error()); m != nil {
			if secs, perr := strconv.ParseFloat(m[1], 64); perr == nil {
				d = time.Duration(secs * float64(time.Second))
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.until = c.now().Add(d)
	return d
}

// Remaining returns how long until the gate reopens (zero when open).
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.until.Sub(c.now()); r > 0 {
		return r
	}
	return 0
}
