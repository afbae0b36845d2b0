package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	solvePath   = "/api/solve"
	comparePath = "/api/compare"
)

// solveLimiter admits requests that start solver runs. Admit reports whether
// a run may start now and, when it may not, how long until one could.
type solveLimiter interface {
	Admit() (bool, time.Duration)
}

type tokenBucket struct {
	limiter *rate.Limiter
}

func newSolveLimiter(runsPerSecond float64, burst int) solveLimiter {
	if runsPerSecond <= 0 {
		runsPerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(runsPerSecond), burst)}
}

func (b *tokenBucket) Admit() (bool, time.Duration) {
	res := b.limiter.Reserve()
	if !res.OK() {
		return false, time.Second
	}
	delay := res.Delay()
	if delay == 0 {
		return true, 0
	}
	res.Cancel()
	return false, delay
}

// limitSolves guards a solver route. Solve and compare share one limiter, so
// a compare that fans out to every strategy costs the same token as a solve.
func limitSolves(limiter solveLimiter, logger *zap.Logger, next http.HandlerFunc) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := limiter.Admit()
		if ok {
			next(w, r)
			return
		}

		seconds := int(math.Ceil(wait.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		logger.Warn("solver run rejected",
			zap.String("path", r.URL.Path),
			zap.Duration("retry_after", wait),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeError(w, http.StatusTooManyRequests, "Too many solver runs",
			fmt.Sprintf("%s and %s share a run limit, retry in %ds", solvePath, comparePath, seconds))
	})
}
