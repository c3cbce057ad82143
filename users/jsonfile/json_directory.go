// Package jsonfile provides a read-only users.Directory backed by a JSON
// file, for deployments where the host application exports its user list
// rather than exposing a lookup API.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/users"
)

var _ users.Directory = (*Directory)(nil)

type Directory struct {
	users map[string]users.User
	lock  sync.RWMutex
}

// Load reads a JSON array of users from the given path.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user directory file: %w", err)
	}

	var list []users.User
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse user directory file %q: %w", path, err)
	}

	d := &Directory{users: make(map[string]users.User, len(list))}
	for _, u := range list {
		if u.ID == "" {
			return nil, fmt.Errorf("user directory file %q contains a user without an id", path)
		}
		d.users[u.ID] = u
	}
	return d, nil
}

func (d *Directory) GetByID(id string) (*users.User, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &u, nil
}
