package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

const accountContextKey = "auth.account"

// WalletClaims is the token payload issued at login. Only the wallet
// address is authoritative; everything else is looked up fresh.
type WalletClaims struct {
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// JWTAuth verifies a Bearer token, resolves (or lazily creates) the
// account for the wallet it names, and stashes it on the echo context.
func JWTAuth(secret string, users user.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request())
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}

			claims := &WalletClaims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			wallet, err := user.NormalizeWallet(claims.Wallet)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token wallet is not a valid address"})
			}

			ctx := c.Request().Context()
			acct, err := users.GetByWallet(ctx, wallet)
			if errors.Is(err, user.ErrNotFound) {
				acct = &user.Account{WalletAddress: wallet, CreditScore: 500}
				if err = users.Create(ctx, acct); err != nil {
					return c.JSON(http.StatusInternalServerError, map[string]string{"error": "account bootstrap failed"})
				}
			} else if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "account lookup failed"})
			}

			c.Set(accountContextKey, acct)
			return next(c)
		}
	}
}

func bearerToken(req *http.Request) (string, error) {
	h := strings.TrimSpace(req.Header.Get(echo.HeaderAuthorization))
	if h == "" {
		return "", errors.New("missing Authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", errors.New("Authorization header must use Bearer scheme")
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, prefix))
	if tok == "" {
		return "", errors.New("empty bearer token")
	}
	return tok, nil
}

// CurrentAccount returns the authenticated account placed on the context
// by JWTAuth. It is nil on routes that skip the middleware.
func CurrentAccount(c echo.Context) *user.Account {
	acct, _ := c.Get(accountContextKey).(*user.Account)
	return acct
}

// SetAccount puts an account on the context the way JWTAuth does. Handler
// tests use it to skip the token dance.
func SetAccount(c echo.Context, a *user.Account) { c.Set(accountContextKey, a) }

// IssueToken mints a signed token for a wallet. Used by the login
// endpoint and by tests.
func IssueToken(secret, wallet string, ttl time.Duration) (string, error) {
	now := nowUTC()
	claims := WalletClaims{
		Wallet: wallet,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}
