package tests

import (
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/admitdesk/apps/api/echo"
)

func Test_home(t *testing.T) {
	app, _, _ := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to AdmitDesk API!", rec.Body.String())
}

func Test_sessionApi_create(t *testing.T) {
	app, _, conf := setup(t)

	tests := []httpTest{
		{
			name: "token required", body: marchallObj(t, echoapi.SessionRequest{Name: "Meena"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"token": "this field is required"}),
		},
		{
			name: "blank token", body: marchallObj(t, echoapi.SessionRequest{Token: "   "}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"token": "this field is required"}),
		},
		{
			name: "invalid email", body: marchallObj(t, echoapi.SessionRequest{Token: backendToken, Email: "meena"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "created", body: marchallObj(t, echoapi.SessionRequest{Token: backendToken, Name: " Meena ", Email: "Meena@School.test", Role: "Counsellor"}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/sessions"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code != http.StatusCreated {
				return
			}
			var res echoapi.SessionResponse
			unmarshal(t, rec, &res)

			claims := new(echoapi.Claims)
			_, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(conf.SecretKey), nil
			})
			require.NoError(t, err)
			assert.Equal(t, backendToken, claims.BackendToken)
			assert.Equal(t, "Meena", claims.Name)
			assert.Equal(t, "meena@school.test", claims.Email)
			assert.Equal(t, "counsellor", claims.Role)
			assert.NotEmpty(t, claims.Subject)
			assert.Equal(t, conf.AppName, claims.Issuer)
		})
	}
}
