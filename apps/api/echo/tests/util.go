package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/admitdesk/apps/api/echo"
	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
	backendsvc "github.com/trezcool/admitdesk/services/backend"
	sessionsvc "github.com/trezcool/admitdesk/services/session"
	"github.com/trezcool/admitdesk/tests"
)

const backendToken = "backend-token"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func newTestConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "AdmitDesk",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			ViewIdleTimeout:    time.Minute,
		},
		Leads: core.LeadsConfig{PageSize: 10},
	}
}

// setup starts an API server in front of a fake backend serving 3 pages of 10 leads ("a01".."c10").
func setup(t *testing.T) (*Server, *testutil.Backend, *core.Config) {
	t.Helper()
	backend := testutil.NewBackend(t, backendToken,
		testutil.Records("a", 10), testutil.Records("b", 10), testutil.Records("c", 10))

	conf := newTestConfig()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	lead.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     core.DiscardLogger,
		Validate:   validate,
		Translator: translator,
		Sources: func(sess core.Session) (lead.PageSource, error) {
			return backendsvc.NewClient(backend.URL, 0, sessionsvc.Static(sess), nil)
		},
		DisableReqLogs: true,
	})
	t.Cleanup(func() { _ = server.Close() })
	return server, backend, conf
}

func getToken(t *testing.T, conf *core.Config, backendTok string) string {
	t.Helper()
	claims := GetSessionClaims(core.Session{Token: backendTok, Name: "Meena", Email: "meena@school.test", Role: "counsellor"}, conf)
	token, err := GenerateToken(claims, NewJWTConfig(conf.SecretKey))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
