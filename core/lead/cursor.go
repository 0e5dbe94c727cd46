package lead

// BackendCursor tracks the backend pages fetched within one load.
type BackendCursor struct {
	LastFetched  int // 0: nothing fetched yet
	TotalPages   int
	TotalRecords int
}

// HasMore reports whether a backend page remains to be fetched.
func (c BackendCursor) HasMore() bool {
	return c.LastFetched == 0 || c.LastFetched < c.TotalPages
}

// Next is the only page the cursor will ever ask for.
func (c BackendCursor) Next() int {
	return c.LastFetched + 1
}

// Advance records a fetched page. Pages at or below LastFetched are ignored.
func (c *BackendCursor) Advance(page, totalPages, totalRecords int) bool {
	if page <= c.LastFetched {
		return false
	}
	c.LastFetched = page
	c.TotalPages = totalPages
	c.TotalRecords = totalRecords
	return true
}

// UICursor is the displayed page of a fixed page size.
type UICursor struct {
	Page int
	Size int
}

func NewUICursor(size int) UICursor {
	return UICursor{Page: 1, Size: size}
}

func (c *UICursor) Reset() {
	c.Page = 1
}

// LookAhead is the number of accumulated leads wanted to show this page and the next one.
func (c UICursor) LookAhead() int {
	return c.Page*c.Size + c.Size
}
