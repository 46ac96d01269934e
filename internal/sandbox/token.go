package sandbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims do token emitido pelo sandbox.
type Claims struct {
	AlunoID int64 `json:"alunoId"`
	jwt.RegisteredClaims
}

// Tempo de vida do access token
const AccessTTL = 15 * time.Minute

const emissor = "portal-aluno-sandbox"

// GerarToken emite um JWT HS256 com iss, sub, iat e exp.
func GerarToken(segredo string, alunoID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		AlunoID: alunoID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    emissor,
			Subject:   fmt.Sprint(alunoID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        fmt.Sprintf("%d-%d", alunoID, now.UnixNano()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(segredo))
}

// ParseEValidar valida assinatura, iss e exp.
func ParseEValidar(segredo, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(segredo), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("token inválido")
	}

	c, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, errors.New("claims inválidas")
	}
	if c.Issuer != emissor {
		return nil, errors.New("issuer inválido")
	}
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return nil, errors.New("token expirado")
	}
	return c, nil
}
