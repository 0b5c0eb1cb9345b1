package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/arcash/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // lower-cased email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Upsert stores a copy of user, assigning an ID when it has none.
func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if old, ok := ur.users[user.ID]; ok && emailKey(old.Email) != emailKey(user.Email) {
		delete(ur.emailIds, emailKey(old.Email))
	}
	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[emailKey(user.Email)] = user.ID
	return nil
}

func (ur *FakeUserRepo) Delete(email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	userID, ok := ur.emailIds[emailKey(email)]
	if !ok {
		return users.ErrNotFound
	}
	delete(ur.emailIds, emailKey(email))
	delete(ur.users, userID)
	return nil
}

// GetByEmail returns a copy; changes must be written back with Upsert.
func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[emailKey(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	u := *stored
	return &u, nil
}

// List returns users ordered by join date. A limit below 1 means no limit.
func (ur *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		u := *v
		userList = append(userList, &u)
	}

	sort.Slice(userList, func(i, j int) bool {
		if userList[i].DateJoined.Equal(userList[j].DateJoined) {
			return userList[i].ID < userList[j].ID
		}
		return userList[i].DateJoined.Before(userList[j].DateJoined)
	})

	if offset >= len(userList) {
		return []*users.User{}, nil
	}
	end := len(userList)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userList[offset:end], nil
}

func (ur *FakeUserRepo) SetBlocked(email string, blocked bool) error {
	return ur.update(email, func(u *users.User) { u.Blocked = blocked })
}

func (ur *FakeUserRepo) SetVerified(email string, verified bool) error {
	return ur.update(email, func(u *users.User) { u.Verified = verified })
}

func (ur *FakeUserRepo) update(email string, fn func(*users.User)) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[emailKey(email)]
	if !ok {
		return users.ErrNotFound
	}
	fn(ur.users[id])
	return nil
}
