package manager

import "sync"

// Lightweight error helper to define package-level errors inline.
type constErr string

func (e constErr) Error() string { return string(e) }
func errorf(s string) error      { return constErr(s) }

// joined aggregates multiple errors into one, in the order they occurred.
type joined struct{ es []error }

func (j joined) Error() string {
	switch n := len(j.es); {
	case n == 0:
		return ""
	case n == 1:
		return j.es[0].Error()
	default:
		s := j.es[0].Error()
		for i := 1; i < n; i++ {
			s += "; " + j.es[i].Error()
		}
		return s
	}
}

func join(es []error) error {
	if len(es) == 0 {
		return nil
	}
	return joined{es}
}

// PublishHandle is the at-most-once completion signal for a single
// resource provider's response to a PUBLISH_RESOURCES event. Exactly one
// of resolve or the manager's own teardown path completes it.
type PublishHandle struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newPublishHandle() *PublishHandle {
	return &PublishHandle{done: make(chan struct{})}
}

func (h *PublishHandle) resolve(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Wait blocks until the resource provider reports OK or FAILED for this
// publish, or the manager cancels it (session torn down mid-flight).
func (h *PublishHandle) Wait() error {
	<-h.done
	return h.err
}

// combinedPublishHandle waits on a set of per-provider handles, one per
// resource provider addressed by a PublishResources call (a single
// provider yields a set of one).
//
// The publish protocol has no notion of ordering across providers, so
// "the first reported error" is not well defined by the wire semantics
// alone; this implementation waits on every provider in the order the
// publish call addressed them and joins all errors found, the
// earliest-addressed failure first, which keeps the result deterministic
// given a fixed input.
type combinedPublishHandle struct {
	handles []*PublishHandle
}

func (c *combinedPublishHandle) Wait() error {
	var errs []error
	for _, h := range c.handles {
		if err := h.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return join(errs)
}
