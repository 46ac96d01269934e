// Package checkout implementa a máquina de estados da contratação:
// carrega o plano, reage à escolha de parcelas pedindo preview, só
// libera a confirmação com um preview válido para a seleção atual e
// encerra o fluxo em qualquer 401.
//
// O portal web original controlava isso com flags mutáveis soltas
// (previewOk, currentInstallments); aqui o estado é uma fase explícita
// mais um número de sequência por seleção, o que elimina a corrida de
// um preview atrasado reabilitar a confirmação para a seleção errada.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
	"github.com/FormaturaIntegrada/portal-aluno/internal/sessao"
)

// Fase é o estado corrente do fluxo.
type Fase int

const (
	FaseInicial Fase = iota
	FaseCarregandoPlano
	FasePlanoCarregado
	FaseCarregandoPreview
	FasePreviewPronto
	FaseErroPreview
	FaseConfirmando
	FaseErroConfirmacao
	FaseConfirmado
	FaseNaoAutenticado
)

func (f Fase) String() string {
	switch f {
	case FaseInicial:
		return "inicial"
	case FaseCarregandoPlano:
		return "carregando-plano"
	case FasePlanoCarregado:
		return "plano-carregado"
	case FaseCarregandoPreview:
		return "carregando-preview"
	case FasePreviewPronto:
		return "preview-pronto"
	case FaseErroPreview:
		return "erro-preview"
	case FaseConfirmando:
		return "confirmando"
	case FaseErroConfirmacao:
		return "erro-confirmacao"
	case FaseConfirmado:
		return "confirmado"
	case FaseNaoAutenticado:
		return "nao-autenticado"
	}
	return "desconhecida"
}

var (
	// ErrNaoAutenticado indica que a credencial expirou ou nunca
	// existiu; o fluxo está encerrado e um novo login cria outro.
	ErrNaoAutenticado = errors.New("sessão expirada, entre novamente")
	// ErrFluxoEncerrado indica que o contrato já foi confirmado
	// neste fluxo.
	ErrFluxoEncerrado = errors.New("contrato já confirmado neste fluxo")
	// ErrPreviewDescartado indica que a resposta chegou depois de a
	// seleção de parcelas mudar; o resultado não foi aplicado.
	ErrPreviewDescartado = errors.New("preview descartado: seleção mudou durante a requisição")
	// ErrPlanoDescartado indica que a resposta da recarga chegou
	// depois de o fluxo avançar; o resultado não foi aplicado.
	ErrPlanoDescartado = errors.New("recarga de plano descartada: o fluxo avançou durante a requisição")
	// ErrConfirmacaoEmAndamento indica outra confirmação em voo.
	ErrConfirmacaoEmAndamento = errors.New("confirmação em andamento")
)

// Flow conduz um checkout do início ao fim. Seguro para chamadas
// concorrentes; as transições acontecem sob o mutex e as chamadas de
// rede fora dele.
type Flow struct {
	client *api.Client
	store  *sessao.Store

	mu         sync.Mutex
	fase       Fase
	plano      *Plano
	selecao    int
	seq        uint64
	preview    []Parcela
	contratoID string
}

// NovoFlow exige credencial ativa: sem ela o fluxo nasce encerrado em
// FaseNaoAutenticado, sem nenhuma chamada de rede.
func NovoFlow(client *api.Client, store *sessao.Store) *Flow {
	f := &Flow{client: client, store: store, fase: FaseInicial}
	if !store.Autenticado() {
		f.fase = FaseNaoAutenticado
	}
	return f
}

// Fase devolve a fase corrente.
func (f *Flow) Fase() Fase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fase
}

// Plano devolve o snapshot carregado, se houver.
func (f *Flow) Plano() *Plano {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plano
}

// Selecao devolve a quantidade de parcelas escolhida (0 = nenhuma).
func (f *Flow) Selecao() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selecao
}

// Preview devolve as linhas do último preview aplicado.
func (f *Flow) Preview() []Parcela {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

// ContratoID devolve o id do contrato após a confirmação.
func (f *Flow) ContratoID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contratoID
}

// PodeConfirmar diz se há um preview válido para a seleção atual.
// Depois de uma confirmação falhada a seleção continua a mesma, então
// o preview segue valendo e a ação permanece habilitada.
func (f *Flow) PodeConfirmar() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fase == FasePreviewPronto || f.fase == FaseErroConfirmacao
}

// encerrado cobre os estados terminais comuns aos três passos.
func (f *Flow) encerrado() error {
	switch f.fase {
	case FaseNaoAutenticado:
		return ErrNaoAutenticado
	case FaseConfirmado:
		return ErrFluxoEncerrado
	}
	return nil
}

// trata401 limpa a credencial e encerra o fluxo. O último contrato
// confirmado fica registrado. Chamado com o mutex.
func (f *Flow) trata401() {
	_ = f.store.LimparCredencial()
	f.fase = FaseNaoAutenticado
}

// CarregarPlano busca o plano da turma e popula o domínio de parcelas
// [1..max]. Em erro que não seja 401 o fluxo volta ao início e a nova
// tentativa exige recarga explícita.
func (f *Flow) CarregarPlano(ctx context.Context) (*Plano, error) {
	f.mu.Lock()
	if err := f.encerrado(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	// Recarregar o plano também torna obsoleto qualquer preview em voo.
	f.seq++
	minha := f.seq
	f.fase = FaseCarregandoPlano
	f.mu.Unlock()

	var bruto planoBruto
	err := f.client.Get(ctx, "/plan/for-student/", &bruto)

	f.mu.Lock()
	defer f.mu.Unlock()
	// O 401 vale mesmo para resposta atrasada.
	if api.EhNaoAutorizado(err) {
		f.trata401()
		return nil, ErrNaoAutenticado
	}
	if errEnc := f.encerrado(); errEnc != nil {
		return nil, errEnc
	}
	if f.seq != minha {
		// Uma seleção (ou outra recarga) superou esta resposta.
		return nil, ErrPlanoDescartado
	}
	if err != nil {
		f.fase = FaseInicial
		return nil, err
	}

	plano := bruto.normalizar()
	f.plano = &plano
	f.selecao = 0
	f.preview = nil
	f.fase = FasePlanoCarregado
	return f.plano, nil
}

// SelecionarParcelas registra a escolha e pede o preview. Toda
// seleção, inclusive repetir o mesmo valor, invalida imediatamente o
// preview anterior: a confirmação fica bloqueada antes mesmo de a nova
// resposta existir. Uma resposta que chegue depois de a seleção mudar
// de novo é descartada (ErrPreviewDescartado).
//
// n < 1 apenas limpa a seleção, sem chamada de rede.
func (f *Flow) SelecionarParcelas(ctx context.Context, n int) ([]Parcela, error) {
	f.mu.Lock()
	if err := f.encerrado(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if f.fase == FaseConfirmando {
		f.mu.Unlock()
		return nil, ErrConfirmacaoEmAndamento
	}
	if f.plano == nil {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: carregue o plano antes de escolher parcelas", api.ErrValidacao)
	}

	// Cada seleção ganha uma sequência nova; qualquer preview em voo
	// para a sequência anterior passa a ser obsoleto.
	f.seq++
	minha := f.seq
	f.preview = nil

	if n < 1 {
		f.selecao = 0
		f.fase = FasePlanoCarregado
		f.mu.Unlock()
		return nil, nil
	}
	if n > f.plano.MaxParcelas {
		f.selecao = 0
		f.fase = FasePlanoCarregado
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: parcelas devem estar entre 1 e %d", api.ErrValidacao, f.plano.MaxParcelas)
	}

	f.selecao = n
	f.fase = FaseCarregandoPreview
	f.mu.Unlock()

	var bruto previewBruto
	err := f.client.Post(ctx, "/contract/preview/", map[string]int{"installments": n}, &bruto)

	f.mu.Lock()
	defer f.mu.Unlock()
	// O 401 vale mesmo para resposta atrasada: a credencial morreu,
	// o descarte cobre só o resultado do preview.
	if api.EhNaoAutorizado(err) {
		f.trata401()
		return nil, ErrNaoAutenticado
	}
	if errEnc := f.encerrado(); errEnc != nil {
		return nil, errEnc
	}
	if f.seq != minha {
		// Resposta atrasada para uma seleção que já não existe.
		return nil, ErrPreviewDescartado
	}
	if err != nil {
		f.fase = FaseErroPreview
		return nil, err
	}
	if bruto.OK != nil && !*bruto.OK {
		msg := bruto.Erro
		if msg == "" {
			msg = "Não foi possível gerar preview."
		}
		f.fase = FaseErroPreview
		return nil, &api.ErroAPI{Status: 200, Mensagem: msg}
	}

	linhas := bruto.normalizar()
	// Divergência de tamanho é anomalia de exibição; o preview segue
	// válido para esta seleção.
	f.preview = linhas
	f.fase = FasePreviewPronto
	return linhas, nil
}

// Confirmar cria o contrato para a seleção atual. A pré-condição é
// checada sob o mutex imediatamente antes da chamada; não basta o
// chamador ter visto PodeConfirmar() true em algum momento. Sucesso é
// terminal; falha não-401 devolve o fluxo para FasePreviewPronto, já
// que o preview continua correspondendo à seleção.
func (f *Flow) Confirmar(ctx context.Context, metodo Metodo) (string, error) {
	f.mu.Lock()
	if err := f.encerrado(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	if f.fase == FaseConfirmando {
		f.mu.Unlock()
		return "", ErrConfirmacaoEmAndamento
	}
	if !metodo.Valido() {
		f.mu.Unlock()
		return "", fmt.Errorf("%w: método de pagamento %q não é aceito", api.ErrValidacao, metodo)
	}
	if (f.fase != FasePreviewPronto && f.fase != FaseErroConfirmacao) || f.selecao < 1 {
		f.mu.Unlock()
		return "", fmt.Errorf("%w: escolha parcelas e aguarde o preview antes de confirmar", api.ErrValidacao)
	}
	n := f.selecao
	f.fase = FaseConfirmando
	f.mu.Unlock()

	corpo := map[string]any{"installments": n, "payment_method": string(metodo)}
	var bruto confirmacaoBruta
	err := f.client.Post(ctx, "/contract/confirm/", corpo, &bruto)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		if api.EhNaoAutorizado(err) {
			f.trata401()
			return "", ErrNaoAutenticado
		}
		// O preview segue casando com a seleção: confirmação
		// reabilitada para nova tentativa do usuário.
		f.fase = FaseErroConfirmacao
		return "", err
	}
	if bruto.OK != nil && !*bruto.OK {
		msg := bruto.Erro
		if msg == "" {
			msg = "Não foi possível confirmar contrato."
		}
		f.fase = FaseErroConfirmacao
		return "", &api.ErroAPI{Status: 200, Mensagem: msg}
	}

	f.contratoID = bruto.contratoID()
	f.fase = FaseConfirmado
	if f.contratoID != "" {
		_ = f.store.DefinirUltimoContrato(f.contratoID)
	}
	return f.contratoID, nil
}
