package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidacao marca falhas detectadas no cliente, antes de qualquer
// chamada de rede. Embrulhar com fmt.Errorf("%w: ...", ErrValidacao).
var ErrValidacao = errors.New("dados inválidos")

// ErroAPI carrega o resultado de uma chamada que falhou: status HTTP
// e a melhor mensagem disponível no corpo, ou uma falha de transporte
// (Conexao=true, sem status).
type ErroAPI struct {
	Status   int
	Mensagem string
	Conexao  bool
}

func (e *ErroAPI) Error() string {
	if e.Conexao {
		return fmt.Sprintf("falha de conexão: %s", e.Mensagem)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Mensagem)
}

// EhNaoAutorizado diz se o erro é um 401 do backend (credencial
// expirada ou inválida).
func EhNaoAutorizado(err error) bool {
	var e *ErroAPI
	return errors.As(err, &e) && !e.Conexao && e.Status == http.StatusUnauthorized
}

// EhConexao diz se o erro foi falha de transporte (rede, timeout).
func EhConexao(err error) bool {
	var e *ErroAPI
	return errors.As(err, &e) && e.Conexao
}
