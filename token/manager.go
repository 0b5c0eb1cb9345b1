package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/users"
	"github.com/pkg/errors"
)

const defaultIssuer = "arcash"

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    string
	AccountID string
	Role      users.RoleType
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues and verifies access tokens.
type Manager struct {
	signer            Signer
	issuer            string
	revoked           RevocationList
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithRevocationList(list RevocationList) ManagerOption {
	return func(m *Manager) {
		m.revoked = list
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer: signer,
		issuer: defaultIssuer,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 15 * time.Minute
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	if m.revoked == nil {
		m.revoked = NewMemoryRevocationList(m.nowFunc)
	}
	return m
}

// CreateAccessToken issues a bearer token for user.
func (c *Manager) CreateAccessToken(user *users.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("Manager.CreateAccessToken user is required")
	}
	now := c.nowFunc()
	claims := jwt.MapClaims{
		"iss":     c.issuer,
		"sub":     user.ID,
		"account": user.AccountID,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(c.accessTokenExpiry).Unix(),
		"jti":     uuid.New().String(), // Unique token ID for revocation
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Manager.CreateAccessToken")
	}
	return signed, nil
}

// Verify checks rawToken. An expired token yields ErrTokenExpired, a revoked one
// ErrTokenRevoked and anything else that fails ErrInvalidToken.
func (c *Manager) Verify(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowFunc),
	)
	token, err := parser.Parse(rawToken, c.signer.GetVerificationKey)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(apperrors.ErrTokenExpired, err.Error())
		}
		return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}

	claims, err := claimsFrom(token)
	if err != nil {
		return nil, err
	}
	if claims.JTI != "" && c.revoked.IsRevoked(claims.JTI) {
		return nil, apperrors.ErrTokenRevoked
	}
	return claims, nil
}

// RevokeAccessToken revokes an access token by its JTI. Revoking an expired token is a no-op.
func (c *Manager) RevokeAccessToken(rawToken string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.Parse(rawToken, c.signer.GetVerificationKey)
	if err != nil {
		return errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}

	claims, err := claimsFrom(token)
	if err != nil {
		return err
	}
	if claims.JTI == "" {
		return errors.Wrap(apperrors.ErrInvalidToken, "token missing jti claim")
	}
	c.revoked.Revoke(claims.JTI, claims.ExpiresAt)
	return nil
}

// CleanupRevokedTokens forgets revocations of tokens that have expired since and
// returns how many were dropped.
func (c *Manager) CleanupRevokedTokens() int {
	return c.revoked.Prune()
}

func claimsFrom(token *jwt.Token) (*Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "error extracting claims from token")
	}

	sub, _ := mapClaims["sub"].(string)
	account, _ := mapClaims["account"].(string)
	role, _ := mapClaims["role"].(string)
	jti, _ := mapClaims["jti"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	if sub == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "token missing sub claim")
	}
	return &Claims{
		UserID:    sub,
		AccountID: account,
		Role:      users.RoleType(role),
		JTI:       jti,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
