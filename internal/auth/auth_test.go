package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAccessToken_VerbatimTokenWins(t *testing.T) {
	tok, err := ResolveAccessToken(context.Background(), Config{
		AccessToken: "  explicit-token  ",
		// Refresh credentials present but must not be used.
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		TokenURL:     "http://127.0.0.1:1/should-not-be-called",
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit-token", tok)
}

func TestResolveAccessToken_MissingCredentials(t *testing.T) {
	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{}, "GOOGLE_ADS_CLIENT_ID"},
		{Config{ClientID: "id"}, "GOOGLE_ADS_CLIENT_SECRET"},
		{Config{ClientID: "id", ClientSecret: "s"}, "GOOGLE_ADS_REFRESH_TOKEN"},
	}
	for _, tc := range cases {
		_, err := ResolveAccessToken(context.Background(), tc.cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.want)
	}
}

func TestResolveAccessToken_RefreshGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	tok, err := ResolveAccessToken(context.Background(), Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh-1",
		TokenURL:     srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)
}

func TestResolveAccessToken_RefreshFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := ResolveAccessToken(context.Background(), Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "bad",
		TokenURL:     srv.URL,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh access token")
}

func TestNormalizeCustomerID(t *testing.T) {
	cases := map[string]string{
		"123-456-7890": "1234567890",
		"1234567890":   "1234567890",
		"ID: 42":       "42",
		"":             "",
		"abc":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCustomerID(in), "input %q", in)
	}
}
