package pagamento

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
)

func servidorPagamento(t *testing.T, corpo string) *Iniciador {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(corpo))
	}))
	t.Cleanup(srv.Close)
	return NovoIniciador(api.NovoClient(srv.URL, nil))
}

func TestIniciarPix(t *testing.T) {
	ini := servidorPagamento(t, `{
		"ok": true,
		"type": "pix",
		"pix_copia_cola": "00020126pagamento",
		"pix_qr_base64": "aW1hZ2Vt",
		"mp_payment_id": 987654
	}`)

	inst, err := ini.Iniciar(context.Background(), "inv-1", MetodoPix)
	require.NoError(t, err)
	assert.Equal(t, "pix", inst.Tipo)
	assert.True(t, inst.PixDisponivel())
	assert.True(t, inst.QRDisponivel())
	assert.False(t, inst.BoletoDisponivel())
	assert.Equal(t, "987654", inst.MPPaymentID.String())
}

func TestIniciarBoleto(t *testing.T) {
	ini := servidorPagamento(t, `{
		"ok": true,
		"type": "boleto",
		"boleto_url": "https://pagamentos.example/boletos/inv-1.pdf",
		"mp_payment_id": "mp_77"
	}`)

	inst, err := ini.Iniciar(context.Background(), "inv-1", MetodoBoleto)
	require.NoError(t, err)
	assert.Equal(t, "boleto", inst.Tipo)
	assert.True(t, inst.BoletoDisponivel())
	assert.False(t, inst.PixDisponivel())
}

// Campos ausentes degradam para "indisponível", nunca viram erro.
func TestCamposAusentesNaoSaoErro(t *testing.T) {
	ini := servidorPagamento(t, `{"ok": true}`)

	inst, err := ini.Iniciar(context.Background(), "inv-1", MetodoPix)
	require.NoError(t, err)
	assert.False(t, inst.PixDisponivel())
	assert.False(t, inst.QRDisponivel())
	assert.False(t, inst.BoletoDisponivel())
	// Tipo cai no método pedido quando o backend não informa.
	assert.Equal(t, "pix", inst.Tipo)
}

func TestRespostaComOKFalso(t *testing.T) {
	ini := servidorPagamento(t, `{"ok": false, "error": "Fatura já paga"}`)

	_, err := ini.Iniciar(context.Background(), "inv-1", MetodoPix)
	var e *api.ErroAPI
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Fatura já paga", e.Mensagem)
}

func TestValidacaoAntesDaRede(t *testing.T) {
	chamadas := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamadas++
	}))
	defer srv.Close()
	ini := NovoIniciador(api.NovoClient(srv.URL, nil))

	_, err := ini.Iniciar(context.Background(), "", MetodoPix)
	assert.ErrorIs(t, err, api.ErrValidacao)

	_, err = ini.Iniciar(context.Background(), "inv-1", Metodo("card"))
	assert.ErrorIs(t, err, api.ErrValidacao)

	assert.Zero(t, chamadas)
}

// Chamadas repetidas pedem instrumentos frescos, sem deduplicação.
func TestChamadasRepetidas(t *testing.T) {
	contador := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contador++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true, "type": "pix", "pix_copia_cola": "payload", "mp_payment_id": contador,
		})
	}))
	defer srv.Close()
	ini := NovoIniciador(api.NovoClient(srv.URL, nil))

	a, err := ini.Iniciar(context.Background(), "inv-1", MetodoPix)
	require.NoError(t, err)
	b, err := ini.Iniciar(context.Background(), "inv-1", MetodoPix)
	require.NoError(t, err)
	assert.Equal(t, "1", a.MPPaymentID.String())
	assert.Equal(t, "2", b.MPPaymentID.String())
	assert.Equal(t, 2, contador)
}
