package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Record is a lead as the backend lead-listing endpoint returns it.
type Record map[string]interface{}

func NewRecord(id, name, board string) Record {
	return Record{
		"_id":         id,
		"studentName": name,
		"board":       board,
		"grade":       "10",
		"source":      "website",
		"status":      "new",
		"salesStatus": "new",
		"counsellor":  "Ravi",
		"contacts": []map[string]string{
			{"name": "Parent of " + name, "relation": "parent", "phone": "+91 90000 00000"},
		},
		"subjects": []string{"Maths", "Physics"},
	}
}

// Records builds `n` records with ids `<prefix>01`, `<prefix>02`...
func Records(prefix string, n int) []Record {
	recs := make([]Record, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s%02d", prefix, i)
		recs = append(recs, NewRecord(id, "Student "+id, "CBSE"))
	}
	return recs
}

// Backend is a fake of the admissions backend: a paginated lead listing and the sales-status patch endpoint.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	pages    [][]Record
	failures map[int]int
	raw      map[int]string
	requests []string
	patched  map[string]string
}

func NewBackend(t *testing.T, token string, pages ...[]Record) *Backend {
	t.Helper()
	b := &Backend{
		token:    token,
		pages:    pages,
		failures: make(map[int]int),
		raw:      make(map[int]string),
		patched:  make(map[string]string),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// SetToken changes the bearer token the backend accepts.
func (b *Backend) SetToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

func (b *Backend) SetPages(pages ...[]Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages = pages
}

// FailPage makes requests for `page` answer with `status`; 0 clears it.
func (b *Backend) FailPage(page, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, page)
		return
	}
	b.failures[page] = status
}

// RawPage makes requests for `page` answer 200 with `body` as is.
func (b *Backend) RawPage(page int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw[page] = body
}

// Requests lists the requests served, as "METHOD path?query".
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// PageRequests lists the pages requested from the lead listing, in order.
func (b *Backend) PageRequests() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var pages []int
	for _, r := range b.requests {
		if i := strings.Index(r, "page="); strings.HasPrefix(r, "GET ") && i >= 0 {
			p, _ := strconv.Atoi(r[i+len("page="):])
			pages = append(pages, p)
		}
	}
	return pages
}

func (b *Backend) Patched(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.patched[id]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		req += "?" + r.URL.RawQuery
	}
	b.requests = append(b.requests, req)

	if r.Header.Get("Authorization") != "Bearer "+b.token {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "invalid token"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/leads":
		b.list(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/leads/") && strings.HasSuffix(r.URL.Path, "/sales-status"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/leads/"), "/sales-status")
		b.patch(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "not found"})
	}
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid page"})
		return
	}
	if status, ok := b.failures[page]; ok {
		writeJSON(w, status, map[string]interface{}{"success": false, "message": http.StatusText(status)})
		return
	}
	if body, ok := b.raw[page]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
		return
	}

	var total, limit int
	for _, p := range b.pages {
		total += len(p)
		if len(p) > limit {
			limit = len(p)
		}
	}
	data := make([]Record, 0)
	if page <= len(b.pages) {
		data = append(data, b.pages[page-1]...)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
		"total":   total,
		"pagination": map[string]int{
			"currentPage": page,
			"totalPages":  len(b.pages),
			"limit":       limit,
		},
	})
}

func (b *Backend) patch(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		SalesStatus string `json:"salesStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SalesStatus == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid body"})
		return
	}
	for _, p := range b.pages {
		for _, rec := range p {
			if rec["_id"] == id {
				rec["salesStatus"] = body.SalesStatus
				b.patched[id] = body.SalesStatus
				writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "lead not found"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
