// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"sync"
	"time"
)

// counterEntry is one client's count in its current window.
type counterEntry struct {
	count int64
	start time.Time
}

// MemoryCounter is an in-process Counter for single-instance deployments
// without Valkey. A window starts with the client's first request.
type MemoryCounter struct {
	mu      sync.Mutex
	clients map[string]*counterEntry
	window  time.Duration
	now     func() time.Time
	stopCh  chan struct{}
}

// NewMemoryCounter creates a counter with the given window. It starts a
// background goroutine that drops expired entries; call Stop to end it.
func NewMemoryCounter(window time.Duration) *MemoryCounter {
	if window <= 0 {
		window = time.Minute
	}
	c := &MemoryCounter{
		clients: make(map[string]*counterEntry),
		window:  window,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.cleanup()
			case <-c.stopCh:
				return
			}
		}
	}()

	return c
}

// Stop terminates the background cleanup goroutine.
func (c *MemoryCounter) Stop() {
	close(c.stopCh)
}

// Incr adds one request for client and returns the count in its window.
func (c *MemoryCounter) Incr(_ context.Context, client string) (int64, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.clients[client]
	if !ok || now.Sub(e.start) >= c.window {
		e = &counterEntry{start: now}
		c.clients[client] = e
	}
	e.count++
	return e.count, nil
}

// cleanup removes clients whose window has ended.
func (c *MemoryCounter) cleanup() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.clients {
		if now.Sub(e.start) >= c.window {
			delete(c.clients, key)
		}
	}
}
