package lead

// DefaultPageSize is the number of leads shown per UI page.
const DefaultPageSize = 10

// Window returns the leads of the 1-based UI page: [(page-1)*size, page*size).
// It does not clamp; an out of range page yields an empty slice.
func Window(leads []Lead, page, size int) []Lead {
	if page < 1 || size < 1 {
		return []Lead{}
	}
	start := (page - 1) * size
	if start >= len(leads) {
		return []Lead{}
	}
	end := start + size
	if end > len(leads) {
		end = len(leads)
	}
	return leads[start:end:end]
}

// PageCount is the number of UI pages needed for `n` leads.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
