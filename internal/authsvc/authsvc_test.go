package authsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/models"
	"github.com/smolensk-traffic/portal/internal/tokenstore"
)

func newTestService(t *testing.T, handler http.HandlerFunc, tokens tokenstore.Store) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(apiclient.New(srv.URL+"/api/auth", tokens))
}

func TestLogin(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, LoginRequest{Email: "a@b.com", Password: "secret"}, req)

		w.Write([]byte(`{"accessToken":"tok1","admin":{"email":"a@b.com","role":"admin"}}`))
	}, tokenstore.NewMemory())

	resp, err := svc.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok1", resp.AccessToken)
	assert.Equal(t, &models.User{Email: "a@b.com", Role: models.RoleAdmin}, resp.Admin)
}

func TestLogin_Rejected(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}, nil)

	resp, err := svc.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apiclient.IsRejected(err))
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestLogin_MissingToken(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"admin":{"email":"a@b.com","role":"admin"}}`))
	}, nil)

	_, err := svc.Login(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
	assert.True(t, apiclient.IsShape(err))
}

func TestLogin_MissingAdmin(t *testing.T) {
	for _, body := range []string{`{"accessToken":"tok1"}`, `{"accessToken":"tok1","admin":null}`} {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}, nil)

		resp, err := svc.Login(context.Background(), "a@b.com", "secret")
		require.Error(t, err, body)
		assert.Nil(t, resp)
		assert.True(t, apiclient.IsShape(err))
	}
}

func TestLogout_SendsBearer(t *testing.T) {
	tokens := tokenstore.NewMemory()
	require.NoError(t, tokens.Save("tok1"))

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}, tokens)

	require.NoError(t, svc.Logout(context.Background()))
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     *models.User
		wantKind apiclient.Kind
	}{
		{name: "valid", status: http.StatusOK, body: `{"admin":{"email":"e@b.com","role":"editor"}}`, want: &models.User{Email: "e@b.com", Role: models.RoleEditor}},
		{name: "unknown role", status: http.StatusOK, body: `{"admin":{"email":"x@b.com","role":"superuser"}}`, want: &models.User{Email: "x@b.com", Role: models.RoleNone}},
		{name: "no admin", status: http.StatusOK, body: `{}`, wantKind: apiclient.KindShape},
		{name: "expired", status: http.StatusUnauthorized, body: `{"message":"Token expired"}`, wantKind: apiclient.KindRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenstore.NewMemory()
			require.NoError(t, tokens.Save("tok1"))
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/auth/refresh", r.URL.Path)
				assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, tokens)

			user, err := svc.Refresh(context.Background())
			if tt.wantKind != 0 {
				require.Error(t, err)
				kind, ok := apiclient.KindOf(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantKind, kind)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, user)
		})
	}
}
