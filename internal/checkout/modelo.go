package checkout

import (
	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
	"github.com/FormaturaIntegrada/portal-aluno/internal/dinheiro"
)

// Metodo é a forma de pagamento aceita na confirmação.
type Metodo string

const (
	MetodoPix    Metodo = "pix"
	MetodoCartao Metodo = "card"
)

// Valido rejeita qualquer método fora do conjunto fixo.
func (m Metodo) Valido() bool {
	return m == MetodoPix || m == MetodoCartao
}

// Plano é o snapshot imutável do plano da turma, buscado uma vez por
// sessão de checkout.
type Plano struct {
	Nome          string
	Total         dinheiro.Centavos
	DiaVencimento int
	MaxParcelas   int
}

// Parcela é uma linha do preview de parcelamento.
type Parcela struct {
	Numero     int
	Vencimento string
	Valor      dinheiro.Centavos
}

// planoBruto aceita os formatos de resposta que os backends já
// devolveram: plano achatado ou embrulhado em "plan", com variantes
// de nome por campo.
type planoBruto struct {
	Plan *planoBruto `json:"plan"`

	Nome string `json:"name"`

	Total      *dinheiro.Centavos `json:"total"`
	PlanTotal  *dinheiro.Centavos `json:"plan_total"`
	ValueTotal *dinheiro.Centavos `json:"value_total"`

	DueDay        *int `json:"due_day"`
	DueDayCamel   *int `json:"dueDay"`
	VencimentoDia *int `json:"vencimento_dia"`

	MaxInstallments      *int `json:"max_installments"`
	MaxInstallmentsCamel *int `json:"maxInstallments"`
	InstallmentsMax      *int `json:"installments_max"`
}

func (p *planoBruto) normalizar() Plano {
	if p.Plan != nil {
		return p.Plan.normalizar()
	}
	plano := Plano{Nome: p.Nome, MaxParcelas: 1}
	switch {
	case p.Total != nil:
		plano.Total = *p.Total
	case p.PlanTotal != nil:
		plano.Total = *p.PlanTotal
	case p.ValueTotal != nil:
		plano.Total = *p.ValueTotal
	}
	switch {
	case p.DueDay != nil:
		plano.DiaVencimento = *p.DueDay
	case p.DueDayCamel != nil:
		plano.DiaVencimento = *p.DueDayCamel
	case p.VencimentoDia != nil:
		plano.DiaVencimento = *p.VencimentoDia
	}
	switch {
	case p.MaxInstallments != nil:
		plano.MaxParcelas = *p.MaxInstallments
	case p.MaxInstallmentsCamel != nil:
		plano.MaxParcelas = *p.MaxInstallmentsCamel
	case p.InstallmentsMax != nil:
		plano.MaxParcelas = *p.InstallmentsMax
	}
	return plano
}

// parcelaBruta aceita as variantes de nome por linha do preview.
type parcelaBruta struct {
	Installment *int `json:"installment"`
	Number      *int `json:"number"`

	DueDate      string `json:"due_date"`
	DueDateCamel string `json:"dueDate"`
	Vencimento   string `json:"vencimento"`

	Value  *dinheiro.Centavos `json:"value"`
	Amount *dinheiro.Centavos `json:"amount"`
	Valor  *dinheiro.Centavos `json:"valor"`
}

// previewBruto aceita a lista sob qualquer um dos nomes conhecidos.
type previewBruto struct {
	OK   *bool  `json:"ok"`
	Erro string `json:"error"`

	Schedule             []parcelaBruta `json:"schedule"`
	Invoices             []parcelaBruta `json:"invoices"`
	InstallmentsSchedule []parcelaBruta `json:"installments_schedule"`
	Preview              []parcelaBruta `json:"preview"`
}

func (p *previewBruto) normalizar() []Parcela {
	brutas := p.Schedule
	if len(brutas) == 0 {
		brutas = p.Invoices
	}
	if len(brutas) == 0 {
		brutas = p.InstallmentsSchedule
	}
	if len(brutas) == 0 {
		brutas = p.Preview
	}

	linhas := make([]Parcela, 0, len(brutas))
	for i, b := range brutas {
		linha := Parcela{Numero: i + 1, Vencimento: "—"}
		switch {
		case b.Installment != nil:
			linha.Numero = *b.Installment
		case b.Number != nil:
			linha.Numero = *b.Number
		}
		switch {
		case b.DueDate != "":
			linha.Vencimento = b.DueDate
		case b.DueDateCamel != "":
			linha.Vencimento = b.DueDateCamel
		case b.Vencimento != "":
			linha.Vencimento = b.Vencimento
		}
		switch {
		case b.Value != nil:
			linha.Valor = *b.Value
		case b.Amount != nil:
			linha.Valor = *b.Amount
		case b.Valor != nil:
			linha.Valor = *b.Valor
		}
		linhas = append(linhas, linha)
	}
	return linhas
}

// confirmacaoBruta aceita as variantes de contract_id na resposta.
type confirmacaoBruta struct {
	OK   *bool  `json:"ok"`
	Erro string `json:"error"`

	ContractID      api.ID `json:"contract_id"`
	ContractIDCamel api.ID `json:"contractId"`
	ID              api.ID `json:"id"`
	Contract        *struct {
		ID api.ID `json:"id"`
	} `json:"contract"`
}

func (c *confirmacaoBruta) contratoID() string {
	switch {
	case c.ContractID != "":
		return string(c.ContractID)
	case c.ContractIDCamel != "":
		return string(c.ContractIDCamel)
	case c.ID != "":
		return string(c.ID)
	case c.Contract != nil:
		return string(c.Contract.ID)
	}
	return ""
}
