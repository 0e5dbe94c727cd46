package backendsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
	sessionsvc "github.com/trezcool/admitdesk/services/session"
	"github.com/trezcool/admitdesk/tests"
)

const token = "backend-token"

func staticSession(tok string) core.SessionProvider {
	return core.SessionFunc(func(context.Context) (core.Session, error) {
		if tok == "" {
			return core.Session{}, core.ErrNoSession
		}
		return core.Session{Token: tok, Name: "Meena", Email: "meena@school.test", Role: "counsellor"}, nil
	})
}

func newTestClient(t *testing.T, baseURL, tok string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, 0, staticSession(tok), nil)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", 0, staticSession(token), nil)
	assert.Error(t, err)

	_, err = NewClient("http://backend", 0, nil, nil)
	assert.Error(t, err)

	c, err := NewClient("http://backend/", time.Second, staticSession(token), core.DiscardLogger)
	require.NoError(t, err)
	assert.Equal(t, "http://backend", c.baseURL)
	assert.Equal(t, time.Second, c.rest.HTTPClient.Timeout)

	// a session provider of a non-pointer kind
	_, err = NewClient("http://backend", 0, sessionsvc.Static(core.Session{Token: token}), nil)
	assert.NoError(t, err)
}

func TestClient_FetchPage(t *testing.T) {
	backend := testutil.NewBackend(t, token, testutil.Records("a", 10), testutil.Records("b", 10), testutil.Records("c", 5))
	c := newTestClient(t, backend.URL, token)

	res, err := c.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 25, res.TotalRecords)
	require.Len(t, res.Leads, 10)

	l := res.Leads[0]
	assert.Equal(t, "b01", l.ID)
	assert.Equal(t, "Student b01", l.Name)
	assert.Equal(t, "CBSE", l.Board)
	assert.Equal(t, lead.StatusNew, l.Status)
	assert.Equal(t, lead.SalesNew, l.SalesStatus)
	assert.Equal(t, "Ravi", l.Counsellor)
	assert.Equal(t, []lead.Contact{{Name: "Parent of Student b01", Relation: "parent", Phone: "+91 90000 00000"}}, l.Contacts)
	assert.Equal(t, []string{"Maths", "Physics"}, l.Subjects)

	assert.Equal(t, []string{"GET /api/leads?page=2"}, backend.Requests())
}

func TestClient_FetchPage_errors(t *testing.T) {
	backend := testutil.NewBackend(t, token, testutil.Records("a", 3), testutil.Records("b", 3))
	backend.FailPage(2, http.StatusInternalServerError)

	tests := []struct {
		name     string
		baseURL  string
		token    string
		page     int
		raw      string
		wantKind error
	}{
		{name: "no session", token: "", page: 1, wantKind: lead.ErrUnauthorized},
		{name: "rejected token", token: "expired", page: 1, wantKind: lead.ErrUnauthorized},
		{name: "server error", token: token, page: 2, wantKind: lead.ErrTransport},
		{name: "unreachable", baseURL: "http://127.0.0.1:1", token: token, page: 1, wantKind: lead.ErrTransport},
		{name: "undecodable body", token: token, page: 3, raw: "<html>oops</html>", wantKind: lead.ErrMalformed},
		{name: "success false", token: token, page: 3, raw: `{"success": false, "message": "db down"}`, wantKind: lead.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL := tt.baseURL
			if baseURL == "" {
				baseURL = backend.URL
			}
			if tt.raw != "" {
				backend.RawPage(tt.page, tt.raw)
			}
			c := newTestClient(t, baseURL, tt.token)

			_, err := c.FetchPage(context.Background(), tt.page)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)

			var fe *lead.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.page, fe.Page)
		})
	}

	t.Run("no session makes no request", func(t *testing.T) {
		before := len(backend.Requests())
		_, _ = newTestClient(t, backend.URL, "").FetchPage(context.Background(), 1)
		assert.Len(t, backend.Requests(), before)
	})

	t.Run("invalid page", func(t *testing.T) {
		_, err := newTestClient(t, backend.URL, token).FetchPage(context.Background(), 0)
		assert.True(t, errors.Is(err, lead.ErrInvalidPage))
		assert.Empty(t, lead.Kind(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestClient(t, backend.URL, token).FetchPage(ctx, 1)
		assert.True(t, errors.Is(err, lead.ErrTransport))
	})
}

func TestClient_cancelledMidRequest(t *testing.T) {
	release := make(chan struct{})
	hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer hung.Close()
	defer close(release)

	c := newTestClient(t, hung.URL, token)

	tests := []struct {
		name string
		call func(ctx context.Context) error
	}{
		{name: "fetch page", call: func(ctx context.Context) error {
			_, err := c.FetchPage(ctx, 1)
			return err
		}},
		{name: "patch sales status", call: func(ctx context.Context) error {
			return c.PatchSalesStatus(ctx, "a01", lead.SalesLost)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			errc := make(chan error, 1)
			go func() { errc <- tt.call(ctx) }()

			select {
			case err := <-errc:
				assert.True(t, errors.Is(err, lead.ErrTransport), "got %v", err)
			case <-time.After(5 * time.Second):
				t.Fatal("request outlived its context")
			}
		})
	}
}

func TestClient_FetchPage_defaultsMissingFields(t *testing.T) {
	backend := testutil.NewBackend(t, token)
	backend.RawPage(1, `{
		"success": true,
		"data": [
			{"_id": "x1", "studentName": "  ", "board": "", "status": "Admission Due", "salesStatus": "Hot", "contacts": [{"name": "Dad"}]},
			{"id": "x2", "name": "Fallback Name"}
		],
		"total": 2
	}`)
	c := newTestClient(t, backend.URL, token)

	res, err := c.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalPages, "no pagination: last page")
	assert.Equal(t, 2, res.TotalRecords)
	require.Len(t, res.Leads, 2)

	x1 := res.Leads[0]
	assert.Equal(t, "x1", x1.ID)
	assert.Equal(t, lead.Placeholder, x1.Name)
	assert.Equal(t, lead.Placeholder, x1.Board)
	assert.Equal(t, lead.Placeholder, x1.Grade)
	assert.Equal(t, lead.Placeholder, x1.Counsellor)
	assert.Equal(t, lead.StatusAdmissionDue, x1.Status)
	assert.Equal(t, lead.SalesNew, x1.SalesStatus)
	assert.Equal(t, []lead.Contact{{Name: "Dad", Relation: lead.Placeholder, Phone: lead.Placeholder}}, x1.Contacts)
	assert.NotNil(t, x1.Subjects)
	assert.Empty(t, x1.Subjects)

	x2 := res.Leads[1]
	assert.Equal(t, "x2", x2.ID)
	assert.Equal(t, "Fallback Name", x2.Name)
	assert.Equal(t, lead.StatusOther, x2.Status)
	assert.NotNil(t, x2.Contacts)
	assert.Empty(t, x2.Contacts)
}

func TestClient_PatchSalesStatus(t *testing.T) {
	backend := testutil.NewBackend(t, token, testutil.Records("a", 3))
	c := newTestClient(t, backend.URL, token)

	require.NoError(t, c.PatchSalesStatus(context.Background(), "a02", lead.SalesQualified))
	assert.Equal(t, "qualified", backend.Patched("a02"))
	assert.Contains(t, backend.Requests(), "PATCH /api/leads/a02/sales-status")

	err := c.PatchSalesStatus(context.Background(), "zz", lead.SalesLost)
	assert.True(t, errors.Is(err, lead.ErrNotFound))

	err = newTestClient(t, backend.URL, "expired").PatchSalesStatus(context.Background(), "a01", lead.SalesLost)
	assert.True(t, errors.Is(err, lead.ErrUnauthorized))
	assert.Empty(t, backend.Patched("a01"))
}

func TestClient_withView(t *testing.T) {
	backend := testutil.NewBackend(t, token, testutil.Records("a", 10), testutil.Records("b", 10), testutil.Records("c", 10))
	c := newTestClient(t, backend.URL, token)

	v, err := lead.NewView(c)
	require.NoError(t, err)
	defer v.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, v.Fill(ctx))

	page := v.Render()
	assert.Equal(t, 20, page.Accumulated)
	assert.Len(t, page.Leads, 10)
	assert.Equal(t, []int{1, 2}, backend.PageRequests())

	updated, err := v.PatchSalesStatus(ctx, "a03", lead.SalesContacted)
	require.NoError(t, err)
	assert.Equal(t, lead.SalesContacted, updated.SalesStatus)
	assert.Equal(t, "contacted", backend.Patched("a03"))
}
