// Package auth loads the externally managed administrator credential list.
package auth

import (
	"encoding/json"
	"os"

	"github.com/medtrack/bp-monitor/internal/logger"
)

// Admin is one administrator credential pair. Stored in plaintext in the
// credentials file, matching the deployed format.
type Admin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Source loads administrator credentials per interaction.
type Source struct {
	path string
}

// NewSource creates a credential source over the given JSON file.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads the administrator list. A missing or malformed file yields an
// empty set, not an error: the interaction proceeds, administrator login is
// simply impossible until the file is fixed.
func (s *Source) Load() []Admin {
	data, err := os.ReadFile(s.path)
	if err != nil {
		logger.Warn("administrators file not readable, no admin login possible", "path", s.path, "error", err)
		return nil
	}

	var admins []Admin
	if err := json.Unmarshal(data, &admins); err != nil {
		logger.Warn("administrators file malformed, no admin login possible", "path", s.path, "error", err)
		return nil
	}

	return admins
}

// Match reports whether the pair matches any administrator entry.
func (s *Source) Match(username, password string) bool {
	for _, admin := range s.Load() {
		if admin.Username == username && admin.Password == password {
			return true
		}
	}
	return false
}
