package echoapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/admitdesk/core/lead"
)

type mountedView struct {
	owner    string
	view     *lead.View
	lastSeen time.Time
}

// registry holds the mounted lead views, one per dashboard screen.
type registry struct {
	mu    sync.Mutex
	views map[string]*mountedView
	now   func() time.Time
}

func newRegistry() *registry {
	return &registry{views: make(map[string]*mountedView), now: time.Now}
}

func (r *registry) add(owner string, v *lead.View) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id] = &mountedView{owner: owner, view: v, lastSeen: r.now()}
	return id
}

// get returns the view `id` of `owner`. Views of other owners are not found.
func (r *registry) get(owner, id string) (*lead.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mv, ok := r.views[id]
	if !ok || mv.owner != owner {
		return nil, false
	}
	mv.lastSeen = r.now()
	return mv.view, true
}

// remove unmounts the view `id` of `owner`.
func (r *registry) remove(owner, id string) bool {
	r.mu.Lock()
	mv, ok := r.views[id]
	if !ok || mv.owner != owner {
		r.mu.Unlock()
		return false
	}
	delete(r.views, id)
	r.mu.Unlock()

	mv.view.Close()
	return true
}

// sweep unmounts the views not used for longer than `idle` and returns how many.
func (r *registry) sweep(idle time.Duration) int {
	r.mu.Lock()
	var stale []*lead.View
	cutoff := r.now().Add(-idle)
	for id, mv := range r.views {
		if mv.lastSeen.Before(cutoff) {
			stale = append(stale, mv.view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.Close()
	}
	return len(stale)
}

func (r *registry) closeAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*mountedView)
	r.mu.Unlock()

	for _, mv := range views {
		mv.view.Close()
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
