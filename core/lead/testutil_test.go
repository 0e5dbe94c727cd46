package lead

import (
	"context"
	"fmt"
	"sync"
)

func makeLeads(ids ...string) []Lead {
	leads := make([]Lead, 0, len(ids))
	for _, id := range ids {
		leads = append(leads, Lead{
			ID:          id,
			Name:        "Student " + id,
			Board:       "CBSE",
			Status:      StatusNew,
			SalesStatus: SalesNew,
			Counsellor:  Placeholder,
		})
	}
	return leads
}

func rangeIDs(prefix string, from, to int) []string {
	ids := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, fmt.Sprintf("%s%02d", prefix, i))
	}
	return ids
}

func ids(leads []Lead) []string {
	res := make([]string, 0, len(leads))
	for _, l := range leads {
		res = append(res, l.ID)
	}
	return res
}

type fetchCall struct {
	page int
	resp chan fetchResp
}

type fetchResp struct {
	res PageResult
	err error
}

// stubSource hands every FetchPage call to the test, which answers it through the call's resp channel.
type stubSource struct {
	calls chan fetchCall

	mu       sync.Mutex
	inFlight int
	overlap  bool
}

func newStubSource() *stubSource {
	return &stubSource{calls: make(chan fetchCall, 16)}
}

func (s *stubSource) FetchPage(ctx context.Context, page int) (PageResult, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > 1 {
		s.overlap = true
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	call := fetchCall{page: page, resp: make(chan fetchResp, 1)}
	s.calls <- call
	select {
	case r := <-call.resp:
		return r.res, r.err
	case <-ctx.Done():
		return PageResult{}, NewFetchError(ErrTransport, "fetching leads", page, ctx.Err())
	}
}

func (s *stubSource) overlapped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlap
}

// memSource serves fixed backend pages synchronously and records sales status patches.
type memSource struct {
	mu       sync.Mutex
	pages    [][]Lead
	fetched  []int
	failing  map[int]error
	patched  map[string]SalesStatus
	patchErr error
}

func newMemSource(pages ...[]Lead) *memSource {
	return &memSource{pages: pages, failing: make(map[int]error), patched: make(map[string]SalesStatus)}
}

// failPage makes fetches of `page` fail with `err`; a nil err clears it.
func (s *memSource) failPage(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failing, page)
		return
	}
	s.failing[page] = err
}

func (s *memSource) setPages(pages ...[]Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = pages
}

func (s *memSource) FetchPage(_ context.Context, page int) (PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, page)
	if err := s.failing[page]; err != nil {
		return PageResult{}, err
	}

	var total int
	for _, p := range s.pages {
		total += len(p)
	}
	res := PageResult{Leads: []Lead{}, TotalPages: len(s.pages), TotalRecords: total}
	if page >= 1 && page <= len(s.pages) {
		res.Leads = append(res.Leads, s.pages[page-1]...)
	}
	return res, nil
}

func (s *memSource) PatchSalesStatus(_ context.Context, id string, status SalesStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patchErr != nil {
		return s.patchErr
	}
	s.patched[id] = status
	return nil
}

func (s *memSource) fetchedPages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.fetched...)
}
