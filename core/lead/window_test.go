package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	leads := makeLeads(rangeIDs("l", 1, 25)...)

	tests := []struct {
		name    string
		page    int
		size    int
		wantIDs []string
	}{
		{name: "first page", page: 1, size: 10, wantIDs: rangeIDs("l", 1, 10)},
		{name: "second page", page: 2, size: 10, wantIDs: rangeIDs("l", 11, 20)},
		{name: "partial last page", page: 3, size: 10, wantIDs: rangeIDs("l", 21, 25)},
		{name: "past the end", page: 4, size: 10, wantIDs: []string{}},
		{name: "page 0", page: 0, size: 10, wantIDs: []string{}},
		{name: "size 0", page: 1, size: 0, wantIDs: []string{}},
		{name: "size larger than the set", page: 1, size: 50, wantIDs: rangeIDs("l", 1, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(leads, tt.page, tt.size)
			assert.NotNil(t, got)
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

func TestWindow_reconstructs(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for size := 1; size <= 7; size++ {
			leads := makeLeads(rangeIDs("l", 1, n)...)

			var joined []Lead
			pages := PageCount(n, size)
			for page := 1; page <= pages; page++ {
				w := Window(leads, page, size)

				want := n - (page-1)*size
				if want > size {
					want = size
				}
				if want < 0 {
					want = 0
				}
				assert.Len(t, w, want, "n=%d size=%d page=%d", n, size, page)
				joined = append(joined, w...)
			}
			assert.Equal(t, ids(leads), ids(joined), "n=%d size=%d", n, size)
			assert.Empty(t, Window(leads, pages+1, size))
		}
	}
}

func TestWindow_appendDoesNotLeak(t *testing.T) {
	leads := makeLeads("a", "b", "c")
	w := Window(leads, 1, 2)
	_ = append(w, Lead{ID: "x"})
	assert.Equal(t, "c", leads[2].ID)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 3, PageCount(25, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}
