package cli

import (
	"sync"

	"github.com/dmitrijs2005/questlog/internal/client/account"
)

// navigator records where the account logic wants the user to be. The REPL
// renders the requested view once the running command returns.
type navigator struct {
	mu      sync.Mutex
	current account.View
	dirty   bool
	reload  bool
}

func newNavigator(start account.View) *navigator {
	return &navigator{current: start, dirty: true}
}

func (n *navigator) Push(v account.View) {
	n.mu.Lock()
	n.current, n.dirty = v, true
	n.mu.Unlock()
}

func (n *navigator) Refresh() {
	n.mu.Lock()
	n.dirty = true
	n.mu.Unlock()
}

func (n *navigator) Reload(v account.View) {
	n.mu.Lock()
	n.current, n.dirty, n.reload = v, true, true
	n.mu.Unlock()
}

func (n *navigator) Current() account.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// take reports the view to render, if any, and whether in-memory view state
// must be dropped first. It clears the pending request.
func (n *navigator) take() (v account.View, render bool, reload bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, render, reload = n.current, n.dirty, n.reload
	n.dirty, n.reload = false, false
	return v, render, reload
}
