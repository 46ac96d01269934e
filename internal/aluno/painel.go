package aluno

import (
	"context"
	"fmt"

	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
	"github.com/FormaturaIntegrada/portal-aluno/internal/dinheiro"
)

// Fatura é uma parcela do contrato já convertida para exibição.
type Fatura struct {
	ID         string
	Numero     int
	Total      int // total de parcelas do contrato
	Vencimento string
	Valor      dinheiro.Centavos
	Status     string // Pago, Atrasado, Aberto
	BoletoURL  string
	PixPayload string
}

// Paga diz se a fatura já foi quitada.
func (f *Fatura) Paga() bool { return f.Status == "Pago" }

// ResumoContrato é o bloco de totais do painel.
type ResumoContrato struct {
	Total             dinheiro.Centavos
	Pago              dinheiro.Centavos
	Restante          dinheiro.Centavos
	ProgressoPorcento int
	Parcelas          int
}

// Painel é tudo que a tela do aluno exibe.
type Painel struct {
	AlunoNome   string
	Turma       string
	Contrato    ResumoContrato
	Faturas     []Fatura
	FaturaAtual *Fatura
}

// painelBruto é o corpo do GET /dashboard/{id}/.
type painelBruto struct {
	OK   *bool  `json:"ok"`
	Erro string `json:"error"`

	Student struct {
		Name  string `json:"name"`
		Turma string `json:"turma"`
	} `json:"student"`

	Contract struct {
		PlanTotal       dinheiro.Centavos `json:"plan_total"`
		PaidTotal       dinheiro.Centavos `json:"paid_total"`
		RemainingTotal  dinheiro.Centavos `json:"remaining_total"`
		ProgressPercent int               `json:"progress_percent"`
		Installments    int               `json:"installments"`
	} `json:"contract"`

	Invoices []struct {
		ID         api.ID            `json:"id"`
		Number     int               `json:"number"`
		DueDate    string            `json:"due_date"`
		Value      dinheiro.Centavos `json:"value"`
		Status     string            `json:"status"`
		BoletoURL  string            `json:"boleto_url"`
		PixPayload string            `json:"pix_payload"`
	} `json:"invoices"`
}

// CarregarPainel busca o painel do aluno logado. Exige o descritor de
// sessão (login por nascimento); um 401 limpa a credencial.
func (s *Servico) CarregarPainel(ctx context.Context) (*Painel, error) {
	desc, ok := s.store.Descritor()
	if !ok {
		return nil, ErrSemSessao
	}

	var bruto painelBruto
	caminho := fmt.Sprintf("/dashboard/%d/", desc.AlunoID)
	if err := s.client.Get(ctx, caminho, &bruto); err != nil {
		if api.EhNaoAutorizado(err) {
			_ = s.store.LimparCredencial()
			return nil, ErrSemSessao
		}
		return nil, err
	}
	if bruto.OK != nil && !*bruto.OK {
		msg := bruto.Erro
		if msg == "" {
			msg = "Erro ao carregar painel."
		}
		return nil, &api.ErroAPI{Status: 200, Mensagem: msg}
	}

	painel := &Painel{
		AlunoNome: bruto.Student.Name,
		Turma:     bruto.Student.Turma,
		Contrato: ResumoContrato{
			Total:             bruto.Contract.PlanTotal,
			Pago:              bruto.Contract.PaidTotal,
			Restante:          bruto.Contract.RemainingTotal,
			ProgressoPorcento: bruto.Contract.ProgressPercent,
			Parcelas:          bruto.Contract.Installments,
		},
	}

	for _, inv := range bruto.Invoices {
		painel.Faturas = append(painel.Faturas, Fatura{
			ID:         inv.ID.String(),
			Numero:     inv.Number,
			Total:      bruto.Contract.Installments,
			Vencimento: FormatarDataBR(inv.DueDate),
			Valor:      inv.Value,
			Status:     MapearStatus(inv.Status),
			BoletoURL:  inv.BoletoURL,
			PixPayload: inv.PixPayload,
		})
	}

	// Fatura atual: primeira em aberto; se tudo pago, a última.
	for i := range painel.Faturas {
		if !painel.Faturas[i].Paga() {
			painel.FaturaAtual = &painel.Faturas[i]
			break
		}
	}
	if painel.FaturaAtual == nil && len(painel.Faturas) > 0 {
		painel.FaturaAtual = &painel.Faturas[len(painel.Faturas)-1]
	}
	return painel, nil
}
