package bank

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
	"github.com/pkg/errors"
)

const cvuLength = 22

// Service applies the bank rules over its repos.
type Service struct {
	repos   Repos
	config  config.BankConfig
	nowTime func() time.Time

	// serializes balance changes
	mu sync.Mutex
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, cfg config.BankConfig, options ...ServiceOption) (*Service, error) {
	if repos.Accounts == nil {
		return nil, errors.New("[bank NewService] Accounts repo is required")
	}
	if repos.Transactions == nil {
		return nil, errors.New("[bank NewService] Transactions repo is required")
	}
	if repos.Favorites == nil {
		return nil, errors.New("[bank NewService] Favorites repo is required")
	}
	s := &Service{
		repos:   repos,
		config:  cfg,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// OpenAccount creates the account of a new user with a generated alias and CVU.
func (s *Service) OpenAccount(userID, ownerName string) (*Account, error) {
	if existing, err := s.repos.Accounts.GetByUserID(userID); err == nil {
		return existing, nil
	}

	cvu, err := randomDigits(cvuLength)
	if err != nil {
		return nil, errors.Wrap(err, "[bank OpenAccount] cvu")
	}
	alias, err := s.freeAlias(ownerName)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:        uuid.New().String(),
		UserID:    userID,
		OwnerName: ownerName,
		Alias:     alias,
		CVU:       cvu,
		Currency:  CurrencyARS,
		CreatedAt: s.nowTime(),
	}
	if err := s.repos.Accounts.Upsert(account); err != nil {
		return nil, errors.Wrap(err, "[bank OpenAccount] Upsert")
	}
	return account, nil
}

func (s *Service) Account(id string) (*Account, error) {
	return s.repos.Accounts.Get(id)
}

// Deposit credits amount to the account and records it.
func (s *Service) Deposit(accountID string, amount float64) (*Account, error) {
	if err := (model.BalanceRequest{Amount: amount}).Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.repos.Accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	account.Balance = round2(account.Balance + amount)
	if err := s.repos.Accounts.Upsert(account); err != nil {
		return nil, errors.Wrap(err, "[bank Deposit] Upsert")
	}
	if err := s.repos.Transactions.Add(&Transaction{
		ID:          uuid.New().String(),
		ToAccountID: account.ID,
		Amount:      amount,
		Description: "Deposit",
		Type:        model.TransactionDeposit,
		CreatedAt:   s.nowTime(),
	}); err != nil {
		return nil, errors.Wrap(err, "[bank Deposit] Add")
	}
	return account, nil
}

// SetAlias changes the account alias. Aliases are unique, ignoring case.
func (s *Service) SetAlias(accountID, alias string) (*Account, error) {
	alias = strings.TrimSpace(alias)
	if err := (model.AliasRequest{Alias: alias}).Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if other, err := s.repos.Accounts.GetByAlias(alias); err == nil && other.ID != accountID {
		return nil, ErrAliasTaken
	}
	account, err := s.repos.Accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	account.Alias = alias
	if err := s.repos.Accounts.Upsert(account); err != nil {
		return nil, errors.Wrap(err, "[bank SetAlias] Upsert")
	}
	return account, nil
}

// Transfer moves amount between two accounts atomically.
func (s *Service) Transfer(fromID, toID string, req model.TransferRequest) (*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	if fromID == toID {
		return nil, ErrSameAccountTransfer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.repos.Accounts.Get(fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.repos.Accounts.Get(toID)
	if err != nil {
		return nil, err
	}
	if from.Balance < req.Amount {
		return nil, ErrInsufficientFunds
	}

	from.Balance = round2(from.Balance - req.Amount)
	to.Balance = round2(to.Balance + req.Amount)
	if err := s.repos.Accounts.Upsert(from); err != nil {
		return nil, errors.Wrap(err, "[bank Transfer] Upsert from")
	}
	if err := s.repos.Accounts.Upsert(to); err != nil {
		return nil, errors.Wrap(err, "[bank Transfer] Upsert to")
	}

	tx := &Transaction{
		ID:            uuid.New().String(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        req.Amount,
		Description:   req.Description,
		Type:          model.TransactionTransfer,
		CreatedAt:     s.nowTime(),
	}
	if err := s.repos.Transactions.Add(tx); err != nil {
		return nil, errors.Wrap(err, "[bank Transfer] Add")
	}
	return tx, nil
}

// Transactions returns the account's history, newest first.
func (s *Service) Transactions(accountID string) ([]*Transaction, error) {
	if _, err := s.repos.Accounts.Get(accountID); err != nil {
		return nil, err
	}
	return s.repos.Transactions.ListForAccount(accountID)
}

// SearchRecipients matches accounts whose alias contains query or whose CVU starts
// with it. The caller's own account is left out.
func (s *Service) SearchRecipients(query, excludeAccountID string) ([]*Account, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "search query is required")
	}
	accounts, err := s.repos.Accounts.List()
	if err != nil {
		return nil, err
	}
	found := make([]*Account, 0)
	for _, a := range accounts {
		if a.ID == excludeAccountID {
			continue
		}
		if strings.Contains(strings.ToLower(a.Alias), query) || strings.HasPrefix(a.CVU, query) {
			found = append(found, a)
		}
	}
	return found, nil
}

func (s *Service) Favorites(userID string) ([]*Favorite, error) {
	return s.repos.Favorites.ListForUser(userID)
}

// Favorite returns one of the user's favorites. Other users' favorites are not found.
func (s *Service) Favorite(userID, id string) (*Favorite, error) {
	f, err := s.repos.Favorites.Get(id)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, ErrFavoriteNotFound
	}
	return f, nil
}

// CreateFavorite saves the account with the given alias as a favorite of userID.
func (s *Service) CreateFavorite(userID string, req model.FavoriteRequest) (*Favorite, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	account, err := s.repos.Accounts.GetByAlias(strings.TrimSpace(req.Alias))
	if err != nil {
		return nil, err
	}
	if err := s.checkDuplicateFavorite(userID, account.ID, ""); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = account.OwnerName
	}
	f := &Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		Alias:     account.Alias,
		Name:      name,
		AccountID: account.ID,
		CreatedAt: s.nowTime(),
	}
	if err := s.repos.Favorites.Upsert(f); err != nil {
		return nil, errors.Wrap(err, "[bank CreateFavorite] Upsert")
	}
	return f, nil
}

func (s *Service) UpdateFavorite(userID, id string, req model.FavoriteRequest) (*Favorite, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	f, err := s.Favorite(userID, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(f.Alias, strings.TrimSpace(req.Alias)) {
		account, err := s.repos.Accounts.GetByAlias(strings.TrimSpace(req.Alias))
		if err != nil {
			return nil, err
		}
		if err := s.checkDuplicateFavorite(userID, account.ID, f.ID); err != nil {
			return nil, err
		}
		f.Alias = account.Alias
		f.AccountID = account.ID
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		f.Name = name
	}
	if err := s.repos.Favorites.Upsert(f); err != nil {
		return nil, errors.Wrap(err, "[bank UpdateFavorite] Upsert")
	}
	return f, nil
}

func (s *Service) DeleteFavorite(userID, id string) error {
	if _, err := s.Favorite(userID, id); err != nil {
		return err
	}
	return s.repos.Favorites.Delete(id)
}

func (s *Service) checkDuplicateFavorite(userID, accountID, ignoreID string) error {
	favs, err := s.repos.Favorites.ListForUser(userID)
	if err != nil {
		return err
	}
	for _, f := range favs {
		if f.AccountID == accountID && f.ID != ignoreID {
			return ErrFavoriteExists
		}
	}
	return nil
}

// CalculateARS returns the taxes on a purchase priced in pesos.
func (s *Service) CalculateARS(amount float64) (model.TaxBreakdown, error) {
	return s.taxes(CurrencyARS, amount, 1)
}

// CalculateUSD converts amount at the configured rate and adds taxes.
func (s *Service) CalculateUSD(amount float64) (model.TaxBreakdown, error) {
	return s.taxes("USD", amount, s.config.GetUSDExchangeRate())
}

func (s *Service) taxes(currency string, amount, rate float64) (model.TaxBreakdown, error) {
	if err := (model.TaxRequest{Amount: amount}).Validate(); err != nil {
		return model.TaxBreakdown{}, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	base := round2(amount * rate)
	pais := round2(base * s.config.GetPaisTaxRate())
	ganancias := round2(base * s.config.GetGananciasTaxRate())
	return model.TaxBreakdown{
		Currency:     currency,
		Amount:       amount,
		ExchangeRate: rate,
		BaseARS:      base,
		PaisTax:      pais,
		GananciasTax: ganancias,
		Total:        round2(base + pais + ganancias),
	}, nil
}

func (s *Service) freeAlias(ownerName string) (string, error) {
	stem := aliasStem(ownerName)
	for range 10 {
		suffix, err := randomDigits(4)
		if err != nil {
			return "", errors.Wrap(err, "[bank freeAlias]")
		}
		alias := stem + "." + suffix + ".ars"
		if _, err := s.repos.Accounts.GetByAlias(alias); apperrors.Is(err, apperrors.ErrNotFound) {
			return alias, nil
		}
	}
	return "", errors.New("[bank freeAlias] no free alias found")
}

// aliasStem keeps the lower-case letters of the first word of name, at most 10 of them.
func aliasStem(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == ' ' {
			break
		}
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
		if b.Len() == 10 {
			break
		}
	}
	if b.Len() == 0 {
		return "cuenta"
	}
	return b.String()
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for range n {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
