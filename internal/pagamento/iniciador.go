// Package pagamento pede ao backend o instrumento de cobrança de uma
// fatura (Pix copia-e-cola, QR, boleto) e o expõe para exibição.
package pagamento

import (
	"context"
	"fmt"

	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
)

// Metodo é a forma de cobrança aceita pelo endpoint de pagamento.
type Metodo string

const (
	MetodoPix    Metodo = "pix"
	MetodoBoleto Metodo = "boleto"
)

func (m Metodo) Valido() bool {
	return m == MetodoPix || m == MetodoBoleto
}

// Instrumento é o resultado de uma cobrança criada. Campo ausente na
// resposta fica vazio e Disponivel() responde false, nunca vira erro.
type Instrumento struct {
	Tipo          string `json:"type"`
	PixCopiaECola string `json:"pix_copia_cola"`
	PixQRBase64   string `json:"pix_qr_base64"`
	BoletoURL     string `json:"boleto_url"`
	MPPaymentID   api.ID `json:"mp_payment_id"`
}

// PixDisponivel diz se há payload Pix utilizável.
func (i *Instrumento) PixDisponivel() bool { return i.PixCopiaECola != "" }

// QRDisponivel diz se há imagem de QR utilizável.
func (i *Instrumento) QRDisponivel() bool { return i.PixQRBase64 != "" }

// BoletoDisponivel diz se há link de boleto utilizável.
func (i *Instrumento) BoletoDisponivel() bool { return i.BoletoURL != "" }

// Iniciador cria cobranças para faturas já existentes.
type Iniciador struct {
	client *api.Client
}

func NovoIniciador(client *api.Client) *Iniciador {
	return &Iniciador{client: client}
}

// respostaPagamento é o corpo devolvido pelo POST /invoices/{id}/pay.
type respostaPagamento struct {
	OK   *bool  `json:"ok"`
	Erro string `json:"error"`
	Instrumento
}

// Iniciar pede um instrumento novo para a fatura. Pode ser chamada
// repetidas vezes; cada chamada devolve um instrumento fresco (se o
// backend deduplica por fatura, isso é contrato dele).
func (i *Iniciador) Iniciar(ctx context.Context, faturaID string, metodo Metodo) (*Instrumento, error) {
	if faturaID == "" {
		return nil, fmt.Errorf("%w: fatura sem id", api.ErrValidacao)
	}
	if !metodo.Valido() {
		return nil, fmt.Errorf("%w: método de pagamento %q não é aceito", api.ErrValidacao, metodo)
	}

	var resposta respostaPagamento
	caminho := fmt.Sprintf("/invoices/%s/pay", faturaID)
	corpo := map[string]string{"method": string(metodo)}
	if err := i.client.Post(ctx, caminho, corpo, &resposta); err != nil {
		return nil, err
	}
	if resposta.OK != nil && !*resposta.OK {
		msg := resposta.Erro
		if msg == "" {
			msg = "Erro ao criar pagamento."
		}
		return nil, &api.ErroAPI{Status: 200, Mensagem: msg}
	}

	inst := resposta.Instrumento
	if inst.Tipo == "" {
		inst.Tipo = string(metodo)
	}
	return &inst, nil
}
