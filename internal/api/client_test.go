package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, staticToken("tok-123"), nil)
}

func TestBrowse_DecodesProfilesAndSendsAuth(t *testing.T) {
	var gotAuth, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"profiles":[
			{"id":1,"first_name":"Ada","age":30,"fame_rating":13.9,"tags":["tea"]},
			{"id":2,"first_name":"Lin","age":27,"fame_rating":2.5,"tags":[]}
		]}}`))
	})

	profiles, err := c.Browse(context.Background(), BrowseParams{Limit: 67, MinAge: 25, OnlyCommonTags: true})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Ada", profiles[0].FirstName)
	assert.Equal(t, 13.9, profiles[0].FameRating)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Contains(t, gotQuery, "limit=67")
	assert.Contains(t, gotQuery, "minAge=25")
	assert.Contains(t, gotQuery, "onlyCommonTags=true")
	assert.NotContains(t, gotQuery, "maxAge")
}

func TestBrowse_ShapeMismatchFailsLoudly(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "profiles key missing", body: `{"success":true,"data":{"users":[]}}`},
		{name: "data missing", body: `{"success":true}`},
		{name: "not json", body: `<html>gateway</html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			_, err := c.Browse(context.Background(), BrowseParams{})
			assert.ErrorIs(t, err, ErrBadShape)
		})
	}
}

func TestDo_SuccessFalseIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"profile incomplete"}`))
	})
	err := c.Like(context.Background(), 7)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "profile incomplete", apiErr.Message)
}

func TestDo_ClientErrorDoesNotFlipOffline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid_token"}`))
	})
	err := c.Like(context.Background(), 7)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.False(t, c.Offline().Down())
}

func TestOffline_ServerErrorFlipsDownAndSuccessClears(t *testing.T) {
	broken := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	})

	var flips []bool
	c.Offline().OnChange(func(down bool) { flips = append(flips, down) })

	err := c.Ping(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.True(t, c.Offline().Down())

	// Manual retry succeeds and clears the flag.
	broken = false
	require.NoError(t, c.Ping(context.Background()))
	assert.False(t, c.Offline().Down())
	assert.Equal(t, []bool{true, false}, flips)
}

func TestOffline_TransportErrorFlipsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore
	c := New(srv.URL, time.Second, staticToken(""), nil)

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, c.Offline().Down())
}

func TestSendMessage_ReturnsStoredCopy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/messages/9", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"message":{"id":4,"sender_id":1,"content":"hi"}}}`))
	})
	msg, err := c.SendMessage(context.Background(), 9, "hi")
	require.NoError(t, err)
	assert.Equal(t, 4, msg.ID)
	assert.Equal(t, "hi", msg.Content)
	assert.False(t, msg.Pending)
}

func TestUnauthenticatedRequestOmitsHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second, staticToken(""), nil)
	require.NoError(t, c.Ping(context.Background()))
	assert.Empty(t, gotAuth)
}
