package lead

import "context"

// PageResult is one backend page of normalized leads.
type PageResult struct {
	Leads        []Lead
	TotalPages   int
	TotalRecords int
}

// PageSource fetches 1-based backend pages of leads. It must not retry and must not
// touch any accumulated state; failures are reported as *FetchError.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (PageResult, error)
}

// StatusPatcher updates the sales status of a lead on the backend.
type StatusPatcher interface {
	PatchSalesStatus(ctx context.Context, id string, status SalesStatus) error
}

// PageSourceFunc adapts a func to a PageSource.
type PageSourceFunc func(ctx context.Context, page int) (PageResult, error)

func (f PageSourceFunc) FetchPage(ctx context.Context, page int) (PageResult, error) {
	return f(ctx, page)
}
