package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/partstash/partstash/pkg/session"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"u1","exp":%d}`, exp.Unix())))
	return header + "." + payload + ".sig"
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	sess, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(baseURL, sess)
	c.HTTP.RetryMax = 0
	c.HTTP.Logger = nil
	return c
}

func signIn(t *testing.T, c *Client) {
	t.Helper()
	token := mintToken(t, time.Now().Add(time.Hour))
	if err := c.Session.Save(session.User{ID: "u1", Username: "ada"}, token); err != nil {
		t.Fatal(err)
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"projects":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c)

	if err := c.get(context.Background(), "/projects", nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer "+c.Session.Token() {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c)

	err := c.get(context.Background(), "/projects", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if c.Session.Token() != "" {
		t.Fatal("session should be cleared after a 401")
	}
}

func TestRegisterGoesOutUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c) // a stored session must not leak into registration

	if err := c.Register(context.Background(), "new-user", "hunter2", ""); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("registration must not carry an Authorization header, got %q", gotAuth)
	}
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c)

	err := c.get(context.Background(), "/project/missing", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c.Session.Token() == "" {
		t.Fatal("a 404 must not clear the session")
	}
}

func TestSignInPersistsSession(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"token":%q,"user":{"id":"u1","username":"ada","status":"active"}}`, token)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	u, err := c.SignIn(context.Background(), "ada", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "ada" {
		t.Fatalf("unexpected user: %#v", u)
	}
	if c.Session.Token() != token {
		t.Fatal("signin did not persist the token")
	}
}
