// Package aluno cobre as superfícies de conta do portal: login (por
// senha ou por data de nascimento), cadastro e painel do aluno. O CPF
// é validado aqui, antes de qualquer chamada de rede.
package aluno

import (
	"context"
	"errors"
	"fmt"

	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
	"github.com/FormaturaIntegrada/portal-aluno/internal/cpf"
	"github.com/FormaturaIntegrada/portal-aluno/internal/sessao"
)

// ErrSemSessao indica operação que exige login sem sessão ativa.
var ErrSemSessao = errors.New("nenhuma sessão ativa, entre novamente")

type Servico struct {
	client *api.Client
	store  *sessao.Store
}

func NovoServico(client *api.Client, store *sessao.Store) *Servico {
	return &Servico{client: client, store: store}
}

// respostaLogin aceita os formatos de credencial que os backends já
// devolveram: token sob vários nomes ou o descritor de sessão.
type respostaLogin struct {
	OK   *bool  `json:"ok"`
	Erro string `json:"error"`

	Token       string `json:"token"`
	Access      string `json:"access"`
	JWT         string `json:"jwt"`
	AccessToken string `json:"access_token"`
	Data        *struct {
		Token string `json:"token"`
	} `json:"data"`

	StudentID   *int64 `json:"student_id"`
	StudentName string `json:"student_name"`
	Turma       string `json:"turma"`
}

func (r *respostaLogin) token() string {
	switch {
	case r.Token != "":
		return r.Token
	case r.Access != "":
		return r.Access
	case r.JWT != "":
		return r.JWT
	case r.AccessToken != "":
		return r.AccessToken
	case r.Data != nil:
		return r.Data.Token
	}
	return ""
}

// guardar persiste o que a resposta trouxe: token, descritor ou ambos.
func (s *Servico) guardar(r *respostaLogin) error {
	token := r.token()
	temDescritor := r.StudentID != nil && *r.StudentID != 0

	if token == "" && !temDescritor {
		msg := r.Erro
		if msg == "" {
			msg = "Login OK, mas token não veio na resposta."
		}
		return &api.ErroAPI{Status: 200, Mensagem: msg}
	}
	if err := s.store.DefinirToken(token); err != nil {
		return err
	}
	if temDescritor {
		return s.store.DefinirDescritor(sessao.Descritor{
			AlunoID:   *r.StudentID,
			AlunoNome: r.StudentName,
			Turma:     r.Turma,
		})
	}
	return nil
}

// Entrar autentica com CPF e senha livre.
func (s *Servico) Entrar(ctx context.Context, documento, senha string) error {
	doc := cpf.SomenteDigitos(documento)
	if doc == "" || senha == "" {
		return fmt.Errorf("%w: preencha CPF e senha para continuar", api.ErrValidacao)
	}
	if !cpf.Valido(doc) {
		return fmt.Errorf("%w: CPF inválido, verifique e tente novamente", api.ErrValidacao)
	}

	var resposta respostaLogin
	corpo := map[string]string{"cpf": doc, "password": senha}
	if err := s.client.Post(ctx, "/login/", corpo, &resposta); err != nil {
		return err
	}
	if resposta.OK != nil && !*resposta.OK {
		msg := resposta.Erro
		if msg == "" {
			msg = "CPF ou senha inválidos."
		}
		return &api.ErroAPI{Status: 200, Mensagem: msg}
	}
	return s.guardar(&resposta)
}

// EntrarComNascimento autentica com CPF e data de nascimento digitada
// como DDMMAAAA (a variante usada pelo painel).
func (s *Servico) EntrarComNascimento(ctx context.Context, documento, ddmmaaaa string) error {
	doc := cpf.SomenteDigitos(documento)
	if doc == "" || ddmmaaaa == "" {
		return fmt.Errorf("%w: preencha CPF e senha para continuar", api.ErrValidacao)
	}
	if !cpf.Valido(doc) {
		return fmt.Errorf("%w: CPF inválido, verifique e tente novamente", api.ErrValidacao)
	}
	nascimento, err := ConverterSenhaParaData(ddmmaaaa)
	if err != nil {
		return fmt.Errorf("%w: %s", api.ErrValidacao, err)
	}

	var resposta respostaLogin
	corpo := map[string]string{"cpf": doc, "birth_date": nascimento}
	if err := s.client.Post(ctx, "/login/", corpo, &resposta); err != nil {
		return err
	}
	if resposta.OK != nil && !*resposta.OK {
		msg := resposta.Erro
		if msg == "" {
			msg = "CPF ou data de nascimento inválidos."
		}
		return &api.ErroAPI{Status: 200, Mensagem: msg}
	}
	return s.guardar(&resposta)
}

// Cadastro é o formulário de criação de conta.
type Cadastro struct {
	NomeAluno       string `json:"student_name"`
	CPF             string `json:"cpf"`
	Nascimento      string `json:"birth_date"` // YYYY-MM-DD
	NomeResponsavel string `json:"responsible_name"`
	Turma           string `json:"turma"`
	Email           string `json:"email"`
	Senha           string `json:"password"`
	ConfirmarSenha  string `json:"confirm_password"`
}

// validar cobre as checagens que o formulário fazia antes de enviar.
func (c *Cadastro) validar() error {
	c.CPF = cpf.SomenteDigitos(c.CPF)
	if c.NomeAluno == "" || c.CPF == "" || c.Nascimento == "" ||
		c.NomeResponsavel == "" || c.Turma == "" || c.Email == "" {
		return fmt.Errorf("%w: preencha todos os campos obrigatórios", api.ErrValidacao)
	}
	if !cpf.Valido(c.CPF) {
		return fmt.Errorf("%w: CPF inválido", api.ErrValidacao)
	}
	if len(c.Senha) < 6 {
		return fmt.Errorf("%w: senha muito curta (mínimo 6 caracteres)", api.ErrValidacao)
	}
	if c.Senha != c.ConfirmarSenha {
		return fmt.Errorf("%w: as senhas não coincidem", api.ErrValidacao)
	}
	return nil
}

// Cadastrar cria a conta do aluno.
func (s *Servico) Cadastrar(ctx context.Context, c Cadastro) error {
	if err := c.validar(); err != nil {
		return err
	}

	var resposta struct {
		OK   *bool  `json:"ok"`
		Erro string `json:"error"`
	}
	if err := s.client.Post(ctx, "/register/", &c, &resposta); err != nil {
		return err
	}
	if resposta.OK != nil && !*resposta.OK {
		msg := resposta.Erro
		if msg == "" {
			msg = "Erro ao cadastrar."
		}
		return &api.ErroAPI{Status: 200, Mensagem: msg}
	}
	return nil
}

// Sair encerra a sessão local.
func (s *Servico) Sair() error {
	return s.store.Limpar()
}
