package lead

import "strings"

// MatchAll is the predicate value that matches every lead. A blank value matches everything as well.
const MatchAll = "all"

// Filter holds the lead manager's predicates; they are ANDed.
type Filter struct {
	Board       string `json:"board" query:"board"`
	Status      string `json:"status" query:"status"`
	SalesStatus string `json:"sales_status" query:"sales_status" validate:"omitempty,salesstatusfilter"`
	Counsellor  string `json:"counsellor" query:"counsellor"`
	Search      string `json:"search" query:"search"`
}

func isMatchAll(v string) bool {
	return v == "" || strings.EqualFold(v, MatchAll)
}

func normalizePredicate(v string) string {
	v = strings.TrimSpace(v)
	if isMatchAll(v) {
		return MatchAll
	}
	return v
}

// Clean trims the predicates and collapses the match-all forms, so that equal filters compare equal.
func (f Filter) Clean() Filter {
	return Filter{
		Board:       normalizePredicate(f.Board),
		Status:      normalizePredicate(f.Status),
		SalesStatus: normalizePredicate(f.SalesStatus),
		Counsellor:  normalizePredicate(f.Counsellor),
		Search:      strings.TrimSpace(f.Search),
	}
}

func (f Filter) Equal(other Filter) bool {
	return f.Clean() == other.Clean()
}

func matchFold(pred, val string) bool {
	return isMatchAll(pred) || strings.EqualFold(pred, val)
}

// Match reports whether `l` satisfies every active predicate of `f`.
func (f Filter) Match(l Lead) bool {
	if !matchFold(f.Board, l.Board) {
		return false
	}
	if !matchFold(f.Status, string(l.Status)) {
		return false
	}
	if !matchFold(f.SalesStatus, string(l.SalesStatus)) {
		return false
	}
	if !isMatchAll(f.Counsellor) && f.Counsellor != l.Counsellor {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Reduce returns, in order, the leads matching `f`. `leads` is never modified.
func Reduce(leads []Lead, f Filter) []Lead {
	f = f.Clean()
	res := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if f.Match(l) {
			res = append(res, l)
		}
	}
	return res
}
