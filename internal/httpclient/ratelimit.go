package httpclient

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter is a process-global per-host request rate limiter. All bulk
// downloads in the process share the same limiter for a given host, preventing
// thundering-herd when many assets of one item fetch from the same upstream.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

// GlobalHostLimit is the shared per-host limiter. Default: 8 requests/s with a
// burst of 4 per host across the entire process.
var GlobalHostLimit = NewHostLimiter(8, 4)

func NewHostLimiter(perSec float64, burst int) *HostLimiter {
	if perSec <= 0 {
		perSec = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perSec:   rate.Limit(perSec),
		burst:    burst,
	}
}

// Wait blocks until a request to rawURL's host may proceed, or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	return h.limiterFor(rawURL).Wait(ctx)
}

func (h *HostLimiter) limiterFor(rawURL string) *rate.Limiter {
	// Normalise: strip path/query, keep scheme+host.
	key := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		key = u.Scheme + "://" + u.Host
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[key]
	if !ok {
		l = rate.NewLimiter(h.perSec, h.burst)
		h.limiters[key] = l
	}
	return l
}
