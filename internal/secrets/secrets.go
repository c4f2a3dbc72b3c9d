// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads values that must not live in the config file from a
// directory of plain-text files. Each file is one secret: the filename is the
// key and the trimmed contents are the value.
//
// Supported key files: contact-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// KeyContactEmail holds the address advertised to remote APIs in the
// User-Agent header.
const KeyContactEmail = "contact-email"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields empty Secrets. Unreadable files are logged and skipped.
func Load(dir string, log zerolog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// ContactEmail returns the configured contact address, or "".
func (s Secrets) ContactEmail() string {
	return s[KeyContactEmail]
}

// UserAgent appends the contact address, when present, to base in the form
// "base (mailto:addr)".
func (s Secrets) UserAgent(base string) string {
	email := s.ContactEmail()
	if email == "" {
		return base
	}
	return fmt.Sprintf("%s (mailto:%s)", base, email)
}

// Keys returns the secret names without their values.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
