package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/shared"
)

// ResolverCache memoizes system resolver lookups for the lifetime of a
// batch. Concurrent lookups of the same name share one resolver call.
type ResolverCache struct {
	Resolver ports.SystemResolverPort

	mu      sync.Mutex
	entries map[string]string
	group   singleflight.Group
	lookups int
}

func NewResolverCache(resolver ports.SystemResolverPort) *ResolverCache {
	return &ResolverCache{
		Resolver: resolver,
		entries:  map[string]string{},
	}
}

// Resolve returns the platform package for name, consulting the
// resolver at most once per name. Failures are not cached.
//
// A shared lookup runs detached from any single caller's cancellation
// and is bounded by the resolver's own timeout; each caller still
// returns as soon as its ctx is done.
func (c *ResolverCache) Resolve(ctx context.Context, name string) (string, error) {
	if resolved, ok := c.lookup(name); ok {
		return resolved, nil
	}
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(name, func() (interface{}, error) {
		if resolved, ok := c.lookup(name); ok {
			return resolved, nil
		}
		resolved, err := c.Resolver.Resolve(lookupCtx, name)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[name] = resolved
		c.lookups++
		c.mu.Unlock()
		log.Ctx(lookupCtx).Debug().Str("dependency", name).Str("package", resolved).Msg("dependency resolved")
		return resolved, nil
	})
	select {
	case <-ctx.Done():
		return "", shared.AdapterUnavailableError("resolver", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Lookups reports how many resolver calls succeeded so far.
func (c *ResolverCache) Lookups() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups
}

func (c *ResolverCache) lookup(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resolved, ok := c.entries[name]
	return resolved, ok
}
