// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const quotaKeyPrefix = "quota:"

// Quota counts renders per client in fixed windows shared by every
// instance of the service.
type Quota struct {
	client *redis.Client
	window time.Duration
}

// NewQuota creates a quota counter with the given window length.
func NewQuota(client *redis.Client, window time.Duration) *Quota {
	if window <= 0 {
		window = time.Minute
	}
	return &Quota{client: client, window: window}
}

// Incr adds one render for client and returns the count in the current
// window. The window starts with the first render.
func (q *Quota) Incr(ctx context.Context, client string) (int64, error) {
	key := quotaKeyPrefix + client
	pipe := q.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, q.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("quota incr: %w", err)
	}
	return incr.Val(), nil
}

// Window returns the window length.
func (q *Quota) Window() time.Duration { return q.window }
