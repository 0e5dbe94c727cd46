package lead

import (
	"context"
	"fmt"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core"
)

// Page is a rendered UI page of the lead manager.
type Page struct {
	Leads        []Lead `json:"leads"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
	PageCount    int    `json:"page_count"`
	Filter       Filter `json:"filter"`
	Filtered     int    `json:"filtered"`
	Accumulated  int    `json:"accumulated"`
	BackendPage  int    `json:"backend_page"`
	BackendPages int    `json:"backend_pages"`
	TotalRecords int    `json:"total_records"`
	Loading      bool   `json:"loading"`
	Error        string `json:"error,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
}

type Option func(*View)

func WithPageSize(size int) Option {
	return func(v *View) { v.ui.Size = size }
}

func WithLogger(logger core.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithPatcher sets the StatusPatcher. By default the PageSource is used when it implements one.
func WithPatcher(p StatusPatcher) Option {
	return func(v *View) { v.patcher = p }
}

// View is one mounted lead manager: it accumulates backend pages, filters and windows them,
// and fetches ahead as the user pages forward.
type View struct {
	src     PageSource
	patcher StatusPatcher
	logger  core.Logger

	mu       sync.Mutex
	set      *Set
	filter   Filter
	ui       UICursor
	backend  BackendCursor
	prefetch Prefetcher
	idle     chan struct{}  // closed when the in-flight fetch ends; nil when Idle
	previous *BackendCursor // cursor to restore when a reload fails
	ctx      context.Context
	cancel   context.CancelFunc
	closed   bool
}

func NewView(src PageSource, opts ...Option) (*View, error) {
	if err := vala.BeginValidation().Validate(
		core.NotNil(src, "src"),
	).Check(); err != nil {
		return nil, err
	}

	v := &View{
		src:    src,
		logger: core.DiscardLogger,
		set:    NewSet(),
		filter: Filter{}.Clean(),
		ui:     NewUICursor(DefaultPageSize),
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := vala.BeginValidation().Validate(
		vala.GreaterThan(v.ui.Size, 0, "page size"),
	).Check(); err != nil {
		return nil, err
	}
	if v.patcher == nil {
		if p, ok := src.(StatusPatcher); ok {
			v.patcher = p
		}
	}
	v.ctx, v.cancel = context.WithCancel(context.Background())
	return v, nil
}

// Render computes the current page and, when it is about to run out of accumulated leads,
// starts fetching the next backend page in the background.
func (v *View) Render() Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return Page{Leads: []Lead{}, Page: v.ui.Page, PageSize: v.ui.Size, Filter: v.filter}
	}
	if page, ok := v.prefetch.Begin(v.set.Len(), v.ui, v.backend); ok {
		v.startLocked(page)
	}
	return v.pageLocked()
}

// Snapshot computes the current page without starting any fetch.
func (v *View) Snapshot() Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return Page{Leads: []Lead{}, Page: v.ui.Page, PageSize: v.ui.Size, Filter: v.filter}
	}
	return v.pageLocked()
}

func (v *View) pageLocked() Page {
	filtered := Reduce(v.set.leads, v.filter)
	err := v.prefetch.Err()
	return Page{
		Leads:        Window(filtered, v.ui.Page, v.ui.Size),
		Page:         v.ui.Page,
		PageSize:     v.ui.Size,
		PageCount:    PageCount(len(filtered), v.ui.Size),
		Filter:       v.filter,
		Filtered:     len(filtered),
		Accumulated:  v.set.Len(),
		BackendPage:  v.backend.LastFetched,
		BackendPages: v.backend.TotalPages,
		TotalRecords: v.backend.TotalRecords,
		Loading:      v.prefetch.State() == Fetching,
		Error:        UserMessage(err),
		ErrorKind:    Kind(err),
	}
}

func (v *View) startLocked(page int) {
	done := make(chan struct{})
	v.idle = done
	v.logger.Debug(fmt.Sprintf("fetching leads page %d", page))
	go v.fetch(v.ctx, page, done)
}

func (v *View) fetch(ctx context.Context, page int, done chan struct{}) {
	res, err := v.src.FetchPage(ctx, page)

	v.mu.Lock()
	defer v.mu.Unlock()
	defer close(done)

	if v.closed {
		return // unmounted: drop the response
	}
	v.idle = nil
	v.prefetch.End(err)
	previous := v.previous
	v.previous = nil
	if err != nil {
		v.logger.Warn(fmt.Sprintf("fetching leads page %d", page), err)
		if previous != nil {
			v.backend = *previous // the accumulated leads still belong to the old generation
		}
		return
	}
	v.set.Merge(res.Leads, page == 1)
	v.backend.Advance(page, res.TotalPages, res.TotalRecords)
}

// SetFilter applies `f`; any change to a predicate resets the UI page to 1.
func (v *View) SetFilter(f Filter) bool {
	f = f.Clean()

	v.mu.Lock()
	defer v.mu.Unlock()

	if f.Equal(v.filter) {
		return false
	}
	v.filter = f
	v.ui.Reset()
	return true
}

func (v *View) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// SetPage moves to the 1-based UI page. Pages past the end render empty.
func (v *View) SetPage(page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ui.Page = page
	return nil
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prefetch.State()
}

// Err is the error of the last fetch, nil after a successful one.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prefetch.Err()
}

// Wait blocks until no fetch is in flight.
func (v *View) Wait(ctx context.Context) error {
	v.mu.Lock()
	done := v.idle
	v.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fill fetches until the current page has all the leads it wants or the backend runs out.
// It stops at the first fetch of its own that fails and returns its error.
func (v *View) Fill(ctx context.Context) error {
	return v.drive(ctx, func() bool {
		page, ok := v.prefetch.Begin(v.set.Len(), v.ui, v.backend)
		if ok {
			v.startLocked(page)
		}
		return ok
	})
}

// LoadAll fetches every remaining backend page.
func (v *View) LoadAll(ctx context.Context) error {
	return v.drive(ctx, func() bool {
		page, ok := v.prefetch.BeginNext(v.backend)
		if ok {
			v.startLocked(page)
		}
		return ok
	})
}

// drive calls `step` whenever the view is Idle, waiting for each fetch, until `step` starts none.
// A fetch already in flight is waited for but its failure is not ours to report.
func (v *View) drive(ctx context.Context, step func() bool) error {
	for {
		v.mu.Lock()
		if v.closed {
			v.mu.Unlock()
			return ErrViewClosed
		}
		var started bool
		if v.prefetch.State() == Idle {
			started = step()
		}
		done := v.idle
		v.mu.Unlock()

		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if !started {
			continue
		}
		if err := v.Err(); err != nil {
			return err
		}
	}
}

// Reload starts over from the first backend page; the accumulated leads are replaced
// once it arrives. It waits for the first page. When that fetch fails the view keeps
// paging the previous generation.
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.prefetch.State() != Idle {
		v.mu.Unlock()
		return ErrFetchInFlight
	}
	previous := v.backend
	v.previous = &previous
	v.backend = BackendCursor{}
	page, _ := v.prefetch.BeginNext(v.backend)
	v.startLocked(page)
	v.mu.Unlock()

	if err := v.Wait(ctx); err != nil {
		return err
	}
	return v.Err()
}

// PatchSalesStatus updates the sales status of an accumulated lead on the backend, then in place.
func (v *View) PatchSalesStatus(ctx context.Context, id string, status SalesStatus) (Lead, error) {
	if v.patcher == nil {
		return Lead{}, ErrNoPatcher
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return Lead{}, ErrViewClosed
	}
	_, ok := v.set.Get(id)
	v.mu.Unlock()
	if !ok {
		return Lead{}, ErrNotFound
	}

	if err := v.patcher.PatchSalesStatus(ctx, id, status); err != nil {
		return Lead{}, errors.Wrap(err, "patching sales status")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return Lead{}, ErrViewClosed
	}
	l, ok := v.set.Update(id, func(l *Lead) { l.SalesStatus = status })
	if !ok {
		return Lead{}, ErrNotFound
	}
	return l, nil
}

// Close unmounts the view. An in-flight fetch is cancelled and its response dropped.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.cancel()
}
