package userrepofake

import (
	"sync"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/users"
)

var _ users.Directory = (*FakeUserDirectory)(nil)

type FakeUserDirectory struct {
	users map[string]*users.User
	lock  sync.RWMutex
}

func NewFakeUserDirectory() *FakeUserDirectory {
	return &FakeUserDirectory{
		users: make(map[string]*users.User),
	}
}

func (d *FakeUserDirectory) Add(user *users.User) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.users[user.ID] = user
}

func (d *FakeUserDirectory) Remove(id string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.users, id)
}

func (d *FakeUserDirectory) GetByID(id string) (*users.User, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	user, ok := d.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return user, nil
}
