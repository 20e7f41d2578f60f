package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/partstash/partstash/internal/utils"
	"github.com/tidwall/gjson"
)

const (
	tokenFileName = "token"
	userFileName  = "user.json"
)

// User is the persisted profile of the signed-in account.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Status       string `json:"status"`
	PricingPlan  string `json:"pricing_plan"`
	CreditsUsed  int    `json:"credits_used"`
	CreditsLimit int    `json:"credits_limit"`
	ParentUserID string `json:"parent_user_id,omitempty"`
	IsViewOnly   bool   `json:"is_view_only,omitempty"`
}

// Store holds the current session in memory and mirrors it to disk.
// Two entries are persisted: the opaque bearer token and the serialized
// user profile. A 401 handler may clear the store while a login is in
// progress, so all access goes through the mutex.
type Store struct {
	mu    sync.Mutex
	dir   string
	token string
	user  *User
	now   func() time.Time
}

// Open reads persisted session state once. Malformed or expired state is
// treated as absent and wiped from disk.
func Open(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".config", "partstash")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &Store{dir: dir, now: time.Now}
	s.load()
	return s, nil
}

func (s *Store) load() {
	tokenBytes, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if err != nil {
		return
	}
	token := strings.TrimSpace(string(tokenBytes))

	if expired, bad := tokenExpired(token, s.now()); bad || expired {
		if bad {
			utils.Log.Debug("Stored token is malformed, clearing session")
		} else {
			utils.Log.Debug("Stored token has expired, clearing session")
		}
		s.clearFiles()
		return
	}

	userBytes, err := os.ReadFile(filepath.Join(s.dir, userFileName))
	if err != nil {
		s.clearFiles()
		return
	}
	var u User
	if err := json.Unmarshal(userBytes, &u); err != nil {
		utils.Log.Debug("Stored user profile is malformed, clearing session")
		s.clearFiles()
		return
	}

	s.token = token
	s.user = &u
}

// tokenExpired inspects the exp claim of a JWT-shaped token. The token is
// self-issued by the inventory service: three base64url segments, the middle
// one a JSON payload carrying a unix "exp".
func tokenExpired(token string, now time.Time) (expired bool, malformed bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false, true
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false, true
	}
	exp := gjson.GetBytes(payload, "exp")
	if !exp.Exists() {
		return false, true
	}
	return now.Unix() >= exp.Int(), false
}

// Save stores the session after a successful signin.
func (s *Store) Save(user User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userBytes, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFileName), []byte(token), 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFileName), userBytes, 0o600); err != nil {
		return err
	}
	s.token = token
	s.user = &user
	return nil
}

// Clear wipes the session in memory and on disk. Called on logout and on
// any 401 from the API.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.clearFiles()
}

func (s *Store) clearFiles() {
	_ = os.Remove(filepath.Join(s.dir, tokenFileName))
	_ = os.Remove(filepath.Join(s.dir, userFileName))
}

// Token returns the bearer token, or empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the signed-in profile, or nil when logged out.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ErrNotSignedIn is returned by operations requiring a session.
var ErrNotSignedIn = errors.New("not signed in")

// CanEdit reports whether the current user may modify an entity owned by
// ownerID. View-only accounts never can.
func (s *Store) CanEdit(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.IsViewOnly {
		return false
	}
	return s.user.ID == ownerID || s.user.ParentUserID == ownerID
}
