package bankrepofake

import (
	"sort"
	"strings"
	"sync"

	"github.com/jrsteele09/arcash/bank"
)

var (
	_ bank.AccountRepo     = (*FakeAccountRepo)(nil)
	_ bank.TransactionRepo = (*FakeTransactionRepo)(nil)
	_ bank.FavoriteRepo    = (*FakeFavoriteRepo)(nil)
)

// NewRepos returns in-memory implementations of every bank repo.
func NewRepos() bank.Repos {
	return bank.Repos{
		Accounts:     NewFakeAccountRepo(),
		Transactions: NewFakeTransactionRepo(),
		Favorites:    NewFakeFavoriteRepo(),
	}
}

type FakeAccountRepo struct {
	accounts map[string]*bank.Account
	lock     sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{accounts: make(map[string]*bank.Account)}
}

func (r *FakeAccountRepo) Upsert(account *bank.Account) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

func (r *FakeAccountRepo) Get(id string) (*bank.Account, error) {
	return r.find(func(a *bank.Account) bool { return a.ID == id })
}

func (r *FakeAccountRepo) GetByUserID(userID string) (*bank.Account, error) {
	return r.find(func(a *bank.Account) bool { return a.UserID == userID })
}

func (r *FakeAccountRepo) GetByAlias(alias string) (*bank.Account, error) {
	return r.find(func(a *bank.Account) bool { return strings.EqualFold(a.Alias, alias) })
}

func (r *FakeAccountRepo) List() ([]*bank.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	list := make([]*bank.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		c := *a
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Alias < list[j].Alias })
	return list, nil
}

func (r *FakeAccountRepo) find(match func(*bank.Account) bool) (*bank.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, a := range r.accounts {
		if match(a) {
			c := *a
			return &c, nil
		}
	}
	return nil, bank.ErrAccountNotFound
}

type FakeTransactionRepo struct {
	byAccount map[string][]*bank.Transaction
	lock      sync.RWMutex
}

func NewFakeTransactionRepo() *FakeTransactionRepo {
	return &FakeTransactionRepo{byAccount: make(map[string][]*bank.Transaction)}
}

// Add records tx against both accounts involved.
func (r *FakeTransactionRepo) Add(tx *bank.Transaction) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored := *tx
	r.byAccount[tx.ToAccountID] = append(r.byAccount[tx.ToAccountID], &stored)
	if tx.FromAccountID != "" && tx.FromAccountID != tx.ToAccountID {
		r.byAccount[tx.FromAccountID] = append(r.byAccount[tx.FromAccountID], &stored)
	}
	return nil
}

// ListForAccount returns the newest transactions first.
func (r *FakeTransactionRepo) ListForAccount(accountID string) ([]*bank.Transaction, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	txs := r.byAccount[accountID]
	list := make([]*bank.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		c := *txs[i]
		list = append(list, &c)
	}
	return list, nil
}

type FakeFavoriteRepo struct {
	favorites map[string]*bank.Favorite
	lock      sync.RWMutex
}

func NewFakeFavoriteRepo() *FakeFavoriteRepo {
	return &FakeFavoriteRepo{favorites: make(map[string]*bank.Favorite)}
}

func (r *FakeFavoriteRepo) Upsert(favorite *bank.Favorite) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored := *favorite
	r.favorites[favorite.ID] = &stored
	return nil
}

func (r *FakeFavoriteRepo) Get(id string) (*bank.Favorite, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f, ok := r.favorites[id]
	if !ok {
		return nil, bank.ErrFavoriteNotFound
	}
	c := *f
	return &c, nil
}

func (r *FakeFavoriteRepo) ListForUser(userID string) ([]*bank.Favorite, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	list := make([]*bank.Favorite, 0)
	for _, f := range r.favorites {
		if f.UserID == userID {
			c := *f
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *FakeFavoriteRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.favorites[id]; !ok {
		return bank.ErrFavoriteNotFound
	}
	delete(r.favorites, id)
	return nil
}
