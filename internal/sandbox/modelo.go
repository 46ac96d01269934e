// Package sandbox é o backend local de desenvolvimento: implementa os
// mesmos endpoints do backend real, com estado em memória, para os
// testes de integração e para rodar o portal sem rede. Faz o papel da
// versão mock do portal original.
package sandbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/FormaturaIntegrada/portal-aluno/internal/dinheiro"
	"github.com/google/uuid"
)

// Aluno é um aluno cadastrado no sandbox.
type Aluno struct {
	ID          int64
	Nome        string
	CPF         string
	Nascimento  string // YYYY-MM-DD
	Responsavel string
	Turma       string
	Email       string
	SenhaHash   string
}

// Plano é o plano de formatura da turma.
type Plano struct {
	Nome          string
	Total         dinheiro.Centavos
	DiaVencimento int
	MaxParcelas   int
}

// Fatura é uma parcela de um contrato confirmado.
type Fatura struct {
	ID         string
	ContratoID string
	Numero     int
	Vencimento string // YYYY-MM-DD
	Valor      dinheiro.Centavos
	Paga       bool
}

// Contrato é o resultado de uma confirmação.
type Contrato struct {
	ID       string
	AlunoID  int64
	Parcelas int
	Metodo   string
}

// Estado guarda tudo em memória. Persistência fica fora do sandbox de
// propósito: o backend real é outro sistema.
type Estado struct {
	mu        sync.Mutex
	proximoID int64
	alunos    map[string]*Aluno // por CPF
	plano     Plano
	contratos map[string]*Contrato
	faturas   map[string]*Fatura // por id
	porAluno  map[int64]*Contrato
}

// NovoEstado cria o estado com o plano padrão da turma.
func NovoEstado() *Estado {
	return &Estado{
		proximoID: 1,
		alunos:    make(map[string]*Aluno),
		contratos: make(map[string]*Contrato),
		faturas:   make(map[string]*Fatura),
		porAluno:  make(map[int64]*Contrato),
		plano: Plano{
			Nome:          "Plano da turma 2026",
			Total:         360000, // R$ 3.600,00
			DiaVencimento: 10,
			MaxParcelas:   12,
		},
	}
}

func (e *Estado) cadastrar(a *Aluno) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, existe := e.alunos[a.CPF]; existe {
		return fmt.Errorf("CPF já cadastrado")
	}
	a.ID = e.proximoID
	e.proximoID++
	e.alunos[a.CPF] = a
	return nil
}

func (e *Estado) alunoPorCPF(cpf string) (*Aluno, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.alunos[cpf]
	return a, ok
}

func (e *Estado) alunoPorID(id int64) (*Aluno, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range e.alunos {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// cronograma divide o total em n parcelas em centavos; o resto da
// divisão vai na primeira parcela. Vencimentos a partir do mês que
// vem, no dia do plano.
func (e *Estado) cronograma(n int) []Fatura {
	valor := int64(e.plano.Total) / int64(n)
	resto := int64(e.plano.Total) % int64(n)

	base := time.Now()
	faturas := make([]Fatura, 0, n)
	for i := 1; i <= n; i++ {
		venc := time.Date(base.Year(), base.Month(), e.plano.DiaVencimento, 0, 0, 0, 0, time.UTC).
			AddDate(0, i, 0)
		v := valor
		if i == 1 {
			v += resto
		}
		faturas = append(faturas, Fatura{
			Numero:     i,
			Vencimento: venc.Format("2006-01-02"),
			Valor:      dinheiro.Centavos(v),
		})
	}
	return faturas
}

// confirmar cria o contrato e as faturas do aluno.
func (e *Estado) confirmar(alunoID int64, n int, metodo string) *Contrato {
	faturas := e.cronograma(n)

	e.mu.Lock()
	defer e.mu.Unlock()
	c := &Contrato{
		ID:       "c_" + uuid.NewString(),
		AlunoID:  alunoID,
		Parcelas: n,
		Metodo:   metodo,
	}
	e.contratos[c.ID] = c
	e.porAluno[alunoID] = c
	for i := range faturas {
		f := faturas[i]
		f.ID = uuid.NewString()
		f.ContratoID = c.ID
		e.faturas[f.ID] = &f
	}
	return c
}

func (e *Estado) contratoDoAluno(alunoID int64) (*Contrato, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.porAluno[alunoID]
	return c, ok
}

func (e *Estado) faturasDoContrato(contratoID string) []*Fatura {
	e.mu.Lock()
	defer e.mu.Unlock()
	var lista []*Fatura
	for _, f := range e.faturas {
		if f.ContratoID == contratoID {
			lista = append(lista, f)
		}
	}
	return lista
}

func (e *Estado) fatura(id string) (*Fatura, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.faturas[id]
	return f, ok
}
