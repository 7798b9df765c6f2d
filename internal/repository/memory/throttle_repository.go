package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ThrottleRepository rate-limits one-time code sends per email address.
type ThrottleRepository struct {
	cache  *cache.Cache
	window time.Duration
}

func NewThrottleRepository(window time.Duration) *ThrottleRepository {
	if window <= 0 {
		window = time.Minute
	}
	// Purge expired entries every 10 minutes
	c := cache.New(window, 10*time.Minute)
	return &ThrottleRepository{
		cache:  c,
		window: window,
	}
}

// Allow reports whether a code may be sent to the address, and records
// the send when it may.
func (r *ThrottleRepository) Allow(email string) bool {
	if _, found := r.cache.Get(email); found {
		return false
	}
	r.cache.Set(email, time.Now(), cache.DefaultExpiration)
	return true
}

func (r *ThrottleRepository) Reset(email string) {
	r.cache.Delete(email)
}
