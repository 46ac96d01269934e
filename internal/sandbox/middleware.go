package sandbox

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxAlunoID ctxKey = "alunoID"

// autenticacao exige Authorization: Bearer com token válido e coloca
// o id do aluno no contexto da requisição.
func (s *Servidor) autenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			responderErro(w, http.StatusUnauthorized, "Token ausente")
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ParseEValidar(s.segredo, raw)
		if err != nil {
			responderErro(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		ctx := context.WithValue(r.Context(), ctxAlunoID, claims.AlunoID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func alunoDoContexto(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxAlunoID).(int64)
	return id
}
