package reconcile

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

var sessionSeq atomic.Uint64

// Session holds everything a reconciler needs between passes for one live
// root.
//
// Prev is the tree the live root currently shows. Next is the tree most
// recently handed to a pass; after the pass commits, Prev and Next are the
// same tree. Fields must not be modified while a pass is running.
type Session struct {
	// ID identifies the session in logs, traces and metrics.
	ID string

	// Root is the live node passes render into.
	Root dom.Node

	Prev *vdom.VNode
	Next *vdom.VNode

	// Refs is the back-reference table.
	Refs *Refs

	// Indexes are per-pass counters, reset at the start of every pass.
	Indexes *Indexes

	mu     sync.Mutex
	passes atomic.Uint64
}

// NewSession creates a session rendering into root.
func NewSession(root dom.Node) *Session {
	return &Session{
		ID:      fmt.Sprintf("s%d", sessionSeq.Add(1)),
		Root:    root,
		Refs:    NewRefs(),
		Indexes: NewIndexes(),
	}
}

// Passes returns the number of committed passes.
func (s *Session) Passes() uint64 {
	return s.passes.Load()
}

// Live returns the live node currently representing node.
func (s *Session) Live(node *vdom.VNode) (dom.Node, bool) {
	return s.Refs.Get(node)
}

// Reset forgets the committed tree and all back-references. The next pass
// treats the root as empty and appends a fresh tree; callers that reuse a
// root should clear it first.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prev = nil
	s.Next = nil
	s.Refs.Clear()
	s.Indexes.Reset()
}

// Indexes is a set of named counters that start from zero on every pass.
//
// Render functions use them to hand out stable per-pass positions, such as
// component keys that must come out the same when the same tree is rendered
// twice.
type Indexes struct {
	counters map[string]int
}

// NewIndexes creates an empty counter set.
func NewIndexes() *Indexes {
	return &Indexes{counters: make(map[string]int)}
}

// Next returns the current value for scope and advances it.
func (ix *Indexes) Next(scope string) int {
	n := ix.counters[scope]
	ix.counters[scope] = n + 1
	return n
}

// Peek returns the current value for scope without advancing it.
func (ix *Indexes) Peek(scope string) int {
	return ix.counters[scope]
}

// Reset sets every counter back to zero.
func (ix *Indexes) Reset() {
	clear(ix.counters)
}
