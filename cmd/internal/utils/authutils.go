package utils

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"strings"
	"time"
)

// TipoClaim carries the user type a token was issued for.
const TipoClaim = "tipo"

type TokenData struct {
	Sub  string
	Tipo string
	Exp  int64
}

// ValidateToken parses AND validates the HS256 signature locally.
// It returns the data if the token is authentic and unexpired.
func ValidateToken(tokenString string, secret []byte) (*TokenData, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret not configured")
	}

	clean := sanitizeToken(tokenString)
	token, err := jwt.Parse(clean, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	tipo := getValue(claims, TipoClaim)
	if tipo == "" {
		return nil, fmt.Errorf("token has no %q claim", TipoClaim)
	}

	return &TokenData{
		Sub:  getValue(claims, "sub"),
		Tipo: tipo,
		Exp:  getInt64(claims, "exp"),
	}, nil
}

// IssueToken signs a token for tipo, used by operators to hand out access.
func IssueToken(secret []byte, sub, tipo string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     sub,
		TipoClaim: tipo,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseTokenDataCtx(ctx echo.Context, secret []byte) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return ValidateToken(token, secret)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
