package lead

// State of the Prefetcher.
type State int

const (
	Idle State = iota
	Fetching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// Want reports whether the accumulated leads fall short of the current UI page plus one page ahead
// while the backend still has pages.
func Want(accumulated int, ui UICursor, backend BackendCursor) bool {
	return accumulated < ui.LookAhead() && backend.HasMore()
}

// Prefetcher decides when the next backend page is fetched and keeps at most one fetch in flight.
// The zero value is Idle.
type Prefetcher struct {
	state   State
	page    int
	lastErr error
}

// Begin moves Idle to Fetching when Want holds and returns the page to fetch.
func (p *Prefetcher) Begin(accumulated int, ui UICursor, backend BackendCursor) (int, bool) {
	if p.state != Idle || !Want(accumulated, ui, backend) {
		return 0, false
	}
	return p.start(backend.Next()), true
}

// BeginNext moves Idle to Fetching for the next backend page regardless of how much is accumulated.
func (p *Prefetcher) BeginNext(backend BackendCursor) (int, bool) {
	if p.state != Idle || !backend.HasMore() {
		return 0, false
	}
	return p.start(backend.Next()), true
}

func (p *Prefetcher) start(page int) int {
	p.state = Fetching
	p.page = page
	return page
}

// End returns to Idle whatever the outcome. `err` is kept until the next successful fetch.
// There is no retry: the cursor did not move, so the next evaluation asks for the same page again.
func (p *Prefetcher) End(err error) {
	p.state = Idle
	p.page = 0
	p.lastErr = err
}

func (p *Prefetcher) State() State {
	return p.state
}

// InFlight is the page being fetched, 0 when Idle.
func (p *Prefetcher) InFlight() int {
	return p.page
}

func (p *Prefetcher) Err() error {
	return p.lastErr
}
