package cache

// Factory builds the mesh for a cache miss. It may return an error, in
// which case nothing is cached and the error propagates to every caller
// waiting on the same key.
type Factory func() (Mesh, error)

// GetOrCreate returns the cached mesh for key, or invokes factory exactly
// once, caches its result, and returns it. Concurrent callers for the
// same key block on the single in-flight factory call rather than each
// invoking it (at-most-once build per fingerprint).
func (c *Cache) GetOrCreate(key Key, factory Factory) (Mesh, error) {
	c.mu.Lock()
	if mesh, ok := c.getLocked(key); ok {
		c.mu.Unlock()
		return mesh, nil
	}
	if call, inflight := c.inflight[key]; inflight {
		c.mu.Unlock()
		<-call.done
		if call.err != nil {
			return nil, call.err
		}
		return call.mesh.Clone(), nil
	}

	call := &singleflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	mesh, err := factory()

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.setLocked(key, mesh)
	}
	call.mesh, call.err = mesh, err
	c.mu.Unlock()
	close(call.done)

	if err != nil {
		return nil, err
	}
	return mesh.Clone(), nil
}
