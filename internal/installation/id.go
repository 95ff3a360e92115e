// Package installation keeps a random id that identifies one install of the
// host application.
package installation

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FileName is the file, inside the host's files dir, holding the id.
const FileName = "PINLOG-INSTALLATION"

var mu sync.Mutex

// ID returns the installation id stored under dir, creating it on first use.
// If the file cannot be written an ephemeral id is returned with the error.
func ID(dir string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	path := filepath.Join(dir, FileName)
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	newID := uuid.New().String()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newID, err
	}
	if err := os.WriteFile(path, []byte(newID), 0644); err != nil {
		return newID, err
	}
	return newID, nil
}
