package session

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mintToken(exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"u1","exp":%d}`, exp.Unix())))
	return header + "." + payload + ".sig"
}

func writeSession(t *testing.T, dir, token string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte(token), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte(`{"id":"u1","username":"ada","status":"active"}`), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestOpenLoadsValidSession(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, mintToken(time.Now().Add(time.Hour)))

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Token() == "" {
		t.Fatal("expected a loaded token")
	}
	u := s.User()
	if u == nil || u.Username != "ada" {
		t.Fatalf("unexpected user: %#v", u)
	}
}

func TestOpenClearsExpiredToken(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, mintToken(time.Now().Add(-time.Hour)))

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Token() != "" {
		t.Fatal("expired token should not be loaded")
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Fatal("expired token file should be removed from disk")
	}
	if _, err := os.Stat(filepath.Join(dir, "user.json")); !os.IsNotExist(err) {
		t.Fatal("user profile should be removed alongside the token")
	}
}

func TestOpenClearsMalformedToken(t *testing.T) {
	tokens := []string{
		"not-a-jwt",
		"a.b",
		"x.!!!.z",
		"a." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u1"}`)) + ".c", // no exp claim
	}

	for _, token := range tokens {
		dir := t.TempDir()
		writeSession(t, dir, token)

		s, err := Open(dir)
		if err != nil {
			t.Fatal(err)
		}
		if s.Token() != "" {
			t.Fatalf("malformed token %q should not be loaded", token)
		}
		if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
			t.Fatalf("malformed token %q should be removed from disk", token)
		}
	}
}

func TestSaveThenClear(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	token := mintToken(time.Now().Add(time.Hour))
	if err := s.Save(User{ID: "u1", Username: "ada"}, token); err != nil {
		t.Fatal(err)
	}
	if s.Token() != token {
		t.Fatal("token not held after save")
	}

	// A fresh store sees the persisted state.
	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s2.Token() != token {
		t.Fatal("token not persisted")
	}

	s2.Clear()
	if s2.Token() != "" || s2.User() != nil {
		t.Fatal("clear left state in memory")
	}
	s3, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s3.Token() != "" {
		t.Fatal("clear left state on disk")
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		ownerID string
		want    bool
	}{
		{name: "owner edits own entity", user: &User{ID: "u1"}, ownerID: "u1", want: true},
		{name: "sub-account edits parent entity", user: &User{ID: "u2", ParentUserID: "u1"}, ownerID: "u1", want: true},
		{name: "unrelated owner", user: &User{ID: "u2"}, ownerID: "u1", want: false},
		{name: "view-only never edits", user: &User{ID: "u1", IsViewOnly: true}, ownerID: "u1", want: false},
		{name: "signed out", user: nil, ownerID: "u1", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := &Store{user: tc.user, now: time.Now}
			if got := s.CanEdit(tc.ownerID); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
