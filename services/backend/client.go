package backendsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
)

var (
	leadsEndpoint       = "/api/leads"
	salesStatusEndpoint = "/api/leads/%s/sales-status"
)

const (
	opFetch = "fetching leads"
	opPatch = "patching sales status"
)

// Client talks to the admissions backend on behalf of the session user.
type Client struct {
	baseURL  string
	rest     *rest.Client
	sessions core.SessionProvider
	logger   core.Logger
}

var (
	_ lead.PageSource    = (*Client)(nil)
	_ lead.StatusPatcher = (*Client)(nil)
)

// NewClient returns a backend client. A zero `timeout` leaves requests unbounded but for their context.
func NewClient(baseURL string, timeout time.Duration, sessions core.SessionProvider, logger core.Logger) (*Client, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(baseURL, "baseURL"),
		core.NotNil(sessions, "sessions"),
	).Check(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.DiscardLogger
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		rest:     &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
		sessions: sessions,
		logger:   logger,
	}, nil
}

func (c *Client) authHeaders(ctx context.Context, op string, page int) (map[string]string, error) {
	sess, err := c.sessions.Session(ctx)
	if err != nil && !errors.Is(err, core.ErrNoSession) {
		return nil, lead.NewFetchError(lead.ErrTransport, op, page, errors.Wrap(err, "reading session"))
	}
	if err != nil || sess.IsZero() {
		return nil, lead.NewFetchError(lead.ErrUnauthorized, op, page, core.ErrNoSession)
	}
	return map[string]string{
		"Authorization": "Bearer " + sess.Token,
		"Accept":        "application/json",
	}, nil
}

// FetchPage requests one page of the lead listing. It does not retry.
func (c *Client) FetchPage(ctx context.Context, page int) (lead.PageResult, error) {
	if page < 1 {
		return lead.PageResult{}, errors.Wrapf(lead.ErrInvalidPage, "%s: page %d", opFetch, page)
	}
	headers, err := c.authHeaders(ctx, opFetch, page)
	if err != nil {
		return lead.PageResult{}, err
	}

	res, err := c.send(ctx, rest.Request{
		Method:      rest.Get,
		BaseURL:     c.baseURL + leadsEndpoint,
		Headers:     headers,
		QueryParams: map[string]string{"page": strconv.Itoa(page)},
	})
	if err != nil {
		return lead.PageResult{}, lead.NewFetchError(lead.ErrTransport, opFetch, page, err)
	}
	if err := checkStatus(res, opFetch, page); err != nil {
		return lead.PageResult{}, err
	}

	var body listResponse
	if err := json.Unmarshal([]byte(res.Body), &body); err != nil {
		return lead.PageResult{}, lead.NewFetchError(lead.ErrMalformed, opFetch, page, errors.Wrap(err, "decoding body"))
	}
	if !body.Success {
		return lead.PageResult{}, lead.NewFetchError(lead.ErrMalformed, opFetch, page, errors.New(successFalse(body.Message)))
	}

	result := body.normalize(page)
	c.logger.Debug(fmt.Sprintf("fetched leads page %d/%d (%d leads)", page, result.TotalPages, len(result.Leads)))
	return result, nil
}

// PatchSalesStatus changes the sales status of the lead `id` on the backend.
func (c *Client) PatchSalesStatus(ctx context.Context, id string, status lead.SalesStatus) error {
	if id == "" {
		return errors.Wrap(lead.ErrNotFound, opPatch)
	}
	headers, err := c.authHeaders(ctx, opPatch, 0)
	if err != nil {
		return err
	}
	headers["Content-Type"] = "application/json"

	payload, err := json.Marshal(patchRequest{SalesStatus: string(status)})
	if err != nil {
		return errors.Wrap(err, "encoding sales status")
	}
	res, err := c.send(ctx, rest.Request{
		Method:  rest.Patch,
		BaseURL: c.baseURL + fmt.Sprintf(salesStatusEndpoint, url.PathEscape(id)),
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return lead.NewFetchError(lead.ErrTransport, opPatch, 0, err)
	}
	if res.StatusCode == http.StatusNotFound {
		return errors.Wrap(lead.ErrNotFound, opPatch)
	}
	if err := checkStatus(res, opPatch, 0); err != nil {
		return err
	}

	var body patchResponse
	if err := json.Unmarshal([]byte(res.Body), &body); err != nil {
		return lead.NewFetchError(lead.ErrMalformed, opPatch, 0, errors.Wrap(err, "decoding body"))
	}
	if !body.Success {
		return lead.NewFetchError(lead.ErrMalformed, opPatch, 0, errors.New(successFalse(body.Message)))
	}
	c.logger.Info(fmt.Sprintf("lead %s sales status set to %s", id, status))
	return nil
}

// send is rest.Client.Send bound to `ctx`, so a closed view cancels its request.
func (c *Client) send(ctx context.Context, r rest.Request) (*rest.Response, error) {
	req, err := rest.BuildRequestObject(r)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	res, err := c.rest.MakeRequest(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(res)
}

func checkStatus(res *rest.Response, op string, page int) error {
	switch {
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return lead.NewFetchError(lead.ErrUnauthorized, op, page, errors.Errorf("status %d", res.StatusCode))
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return lead.NewFetchError(lead.ErrTransport, op, page, errors.Errorf("status %d", res.StatusCode))
	default:
		return nil
	}
}

func successFalse(msg string) string {
	if msg == "" {
		return "success: false"
	}
	return "success: false: " + msg
}
