// Package sessao guarda a credencial do aluno entre execuções,
// equivalente ao localStorage do portal web: um único documento JSON
// sob o diretório de configuração do usuário.
package sessao

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Dados é o documento persistido. O token é a forma canônica da
// credencial; o descritor de sessão acompanha quando o backend o
// devolve no login.
type Dados struct {
	Token          string `json:"token,omitempty"`
	AlunoID        int64  `json:"student_id,omitempty"`
	AlunoNome      string `json:"student_name,omitempty"`
	Turma          string `json:"turma,omitempty"`
	UltimoContrato string `json:"last_contract_id,omitempty"`
}

// Descritor é a forma estruturada de sessão usada pelo painel.
type Descritor struct {
	AlunoID   int64  `json:"student_id"`
	AlunoNome string `json:"student_name"`
	Turma     string `json:"turma"`
}

type Store struct {
	caminho string
}

// NovoStore abre o store no caminho informado; vazio usa o padrão
// (<config do usuário>/portal-aluno/sessao.json).
func NovoStore(caminho string) (*Store, error) {
	if caminho == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		caminho = filepath.Join(dir, "portal-aluno", "sessao.json")
	}
	return &Store{caminho: caminho}, nil
}

// ler devolve o documento atual; arquivo ausente ou corrompido
// conta como sessão ausente, nunca como erro.
func (s *Store) ler() Dados {
	var d Dados
	raw, err := os.ReadFile(s.caminho)
	if err != nil {
		return Dados{}
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return Dados{}
	}
	return d
}

func (s *Store) gravar(d Dados) error {
	if err := os.MkdirAll(filepath.Dir(s.caminho), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(s.caminho, raw, 0o600)
}

// DefinirToken grava a credencial. Valor vazio é ignorado: nunca
// sobrescreve uma credencial válida com nada.
func (s *Store) DefinirToken(token string) error {
	if token == "" {
		return nil
	}
	d := s.ler()
	d.Token = token
	return s.gravar(d)
}

// Token devolve a credencial atual, se houver.
func (s *Store) Token() (string, bool) {
	d := s.ler()
	return d.Token, d.Token != ""
}

// DefinirDescritor grava a sessão estruturada. Descritor sem aluno é
// ignorado, como no DefinirToken.
func (s *Store) DefinirDescritor(desc Descritor) error {
	if desc.AlunoID == 0 {
		return nil
	}
	d := s.ler()
	d.AlunoID = desc.AlunoID
	d.AlunoNome = desc.AlunoNome
	d.Turma = desc.Turma
	return s.gravar(d)
}

// Descritor devolve a sessão estruturada, se houver.
func (s *Store) Descritor() (Descritor, bool) {
	d := s.ler()
	if d.AlunoID == 0 {
		return Descritor{}, false
	}
	return Descritor{AlunoID: d.AlunoID, AlunoNome: d.AlunoNome, Turma: d.Turma}, true
}

// Autenticado diz se há qualquer credencial ativa (token ou descritor).
func (s *Store) Autenticado() bool {
	d := s.ler()
	return d.Token != "" || d.AlunoID != 0
}

// DefinirUltimoContrato guarda o id do último contrato confirmado.
func (s *Store) DefinirUltimoContrato(id string) error {
	if id == "" {
		return nil
	}
	d := s.ler()
	d.UltimoContrato = id
	return s.gravar(d)
}

// UltimoContrato devolve o id do último contrato confirmado, se houver.
func (s *Store) UltimoContrato() (string, bool) {
	d := s.ler()
	return d.UltimoContrato, d.UltimoContrato != ""
}

// LimparCredencial remove token e descritor, preservando o último
// contrato confirmado. É o caminho do 401; o logout usa Limpar.
func (s *Store) LimparCredencial() error {
	d := s.ler()
	if d.UltimoContrato == "" {
		return s.Limpar()
	}
	return s.gravar(Dados{UltimoContrato: d.UltimoContrato})
}

// Limpar remove a sessão por completo (logout).
func (s *Store) Limpar() error {
	err := os.Remove(s.caminho)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
