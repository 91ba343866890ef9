package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Session is the locally persisted room membership: which room the
// player is in plus the server session cookies that authenticate them.
type Session struct {
	RoomID     string          `json:"room_id"`
	PlayerName string          `json:"player_name"`
	Cookies    []SessionCookie `json:"cookies"`
}

// SessionCookie is one persisted cookie.
type SessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func sessionDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".market-crash")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func sessionPath() (string, error) {
	dir, err := sessionDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// SaveSession writes the session file.
func SaveSession(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

// LoadSession reads the session file.
func LoadSession() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(s.RoomID) == "" {
		return Session{}, fmt.Errorf("no room in session")
	}
	return s, nil
}

// ClearSession removes the session file if present.
func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}

// ExportCookies snapshots the client's cookies for the server so they
// can be persisted between runs.
func (c *Client) ExportCookies() []SessionCookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	var out []SessionCookie
	for _, ck := range c.jar.Cookies(u) {
		out = append(out, SessionCookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

// RestoreCookies seeds the client's jar from a persisted session.
func (c *Client) RestoreCookies(cookies []SessionCookie) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	hc := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		hc = append(hc, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	c.jar.SetCookies(u, hc)
}
