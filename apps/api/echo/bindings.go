package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
)

var (
	pageParam = "page"
	waitParam = "wait"

	filterParams = []string{"board", "status", "sales_status", "counsellor", "search"}
)

// ViewQuery is the query of a lead view render: filter changes, the UI page and whether to wait for pending fetches.
// Filter params left out keep their current value; an empty one matches all.
type ViewQuery struct {
	filter map[string]string // given filter params
	Page   int               // 0: unchanged
	Wait   bool
}

func (q *ViewQuery) Bind(ctx echo.Context) error {
	data := ctx.QueryParams()

	get := func(name string) string {
		if val, ok := data[name]; ok && len(val) > 0 {
			return strings.TrimSpace(val[0])
		}
		return ""
	}

	q.filter = make(map[string]string, len(filterParams))
	for _, name := range filterParams {
		if _, ok := data[name]; ok {
			q.filter[name] = get(name)
		}
	}

	if p := get(pageParam); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			return core.NewValidationError(nil, core.FieldError{Field: pageParam, Error: "must be a positive integer"})
		}
		q.Page = page
	}

	if w := get(waitParam); w != "" {
		wait, err := strconv.ParseBool(w)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: waitParam, Error: "must be a boolean"})
		}
		q.Wait = wait
	}
	return nil
}

// Filter is `current` with the given filter params applied.
func (q ViewQuery) Filter(current lead.Filter) lead.Filter {
	f := current
	for name, val := range q.filter {
		switch name {
		case "board":
			f.Board = val
		case "status":
			f.Status = val
		case "sales_status":
			f.SalesStatus = val
		case "counsellor":
			f.Counsellor = val
		case "search":
			f.Search = val
		}
	}
	return f
}
