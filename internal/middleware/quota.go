// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Counter counts requests per client in fixed windows. *cache.Quota and
// *MemoryCounter implement it.
type Counter interface {
	Incr(ctx context.Context, client string) (int64, error)
}

// RenderQuota limits how many PDFs a client may render per window.
type RenderQuota struct {
	counter Counter
	limit   int
	window  time.Duration
}

// NewRenderQuota creates a quota of limit renders per window. A limit of 0
// or a nil counter disables the check.
func NewRenderQuota(counter Counter, limit int, window time.Duration) *RenderQuota {
	if window <= 0 {
		window = time.Minute
	}
	return &RenderQuota{counter: counter, limit: limit, window: window}
}

// Middleware answers 429 once a client exceeds the quota. Counter failures
// are logged and the request is let through.
func (q *RenderQuota) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q.counter == nil || q.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		n, err := q.counter.Incr(r.Context(), ip)
		if err != nil {
			slog.Warn("render quota unavailable", "client", ip, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if n > int64(q.limit) {
			slog.Warn("render quota exceeded", "client", ip, "count", n, "limit", q.limit)
			w.Header().Set("Retry-After", strconv.Itoa(int(q.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "render quota exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	// The leftmost X-Forwarded-For entry is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
