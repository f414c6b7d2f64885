package index

import "sync"

// call is one in-flight (or just-finished) rebuild for a workspace root.
type call struct {
	wg  sync.WaitGroup
	idx *Index
	err error
}

// Coordinator collapses concurrent rebuild requests for the same workspace
// root into a single Scan+Build, so that editor events firing faster than
// a scan completes (several buffers saved back to back) don't each pay for
// their own walk of the same tree. Hand-rolled rather than
// golang.org/x/sync/singleflight: the coordination needed here is a single
// map keyed by root with no call-sharing statistics or forget semantics.
type Coordinator struct {
	mu    sync.Mutex
	calls map[string]*call
}

// NewCoordinator returns an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{calls: make(map[string]*call)}
}

// Do runs fn for root if no rebuild is already in flight for it; otherwise
// it waits for the in-flight rebuild and returns its result. Every caller
// for the same root during an overlapping window observes the identical
// (idx, err) pair.
func (c *Coordinator) Do(root string, fn func() (*Index, error)) (*Index, error) {
	c.mu.Lock()
	if existing, ok := c.calls[root]; ok {
		c.mu.Unlock()
		existing.wg.Wait()
		return existing.idx, existing.err
	}
	cl := &call{}
	cl.wg.Add(1)
	c.calls[root] = cl
	c.mu.Unlock()

	cl.idx, cl.err = fn()
	cl.wg.Done()

	c.mu.Lock()
	delete(c.calls, root)
	c.mu.Unlock()

	return cl.idx, cl.err
}
