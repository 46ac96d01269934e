// Package cli monta os comandos do portal: cadastro, login, plano,
// checkout, pagamento, painel e o sandbox local.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FormaturaIntegrada/portal-aluno/internal/aluno"
	"github.com/FormaturaIntegrada/portal-aluno/internal/api"
	"github.com/FormaturaIntegrada/portal-aluno/internal/checkout"
	"github.com/FormaturaIntegrada/portal-aluno/internal/config"
	"github.com/FormaturaIntegrada/portal-aluno/internal/pagamento"
	"github.com/FormaturaIntegrada/portal-aluno/internal/sandbox"
	"github.com/FormaturaIntegrada/portal-aluno/internal/sessao"
)

// ambiente agrupa as dependências compartilhadas pelos comandos.
type ambiente struct {
	cfg    config.Config
	store  *sessao.Store
	client *api.Client
}

func novoAmbiente(cfg config.Config) (*ambiente, error) {
	store, err := sessao.NovoStore(cfg.ArquivoSessao)
	if err != nil {
		return nil, err
	}
	client := api.NovoClient(cfg.APIBase, store.Token)
	return &ambiente{cfg: cfg, store: store, client: client}, nil
}

// NovoRaiz monta a árvore de comandos.
func NovoRaiz(cfg config.Config) *cobra.Command {
	raiz := &cobra.Command{
		Use:           "portal-aluno",
		Short:         "Portal do aluno: plano de formatura, checkout e pagamento",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	raiz.AddCommand(
		novoCmdCadastro(cfg),
		novoCmdEntrar(cfg),
		novoCmdSair(cfg),
		novoCmdPlano(cfg),
		novoCmdCheckout(cfg),
		novoCmdPainel(cfg),
		novoCmdPagar(cfg),
		novoCmdSandbox(cfg),
	)
	return raiz
}

func novoCmdCadastro(cfg config.Config) *cobra.Command {
	var c aluno.Cadastro
	cmd := &cobra.Command{
		Use:   "cadastro",
		Short: "Cria a conta do aluno",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			if err := aluno.NovoServico(env.client, env.store).Cadastrar(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Println("Cadastro criado com sucesso! Agora use: portal-aluno entrar")
			return nil
		},
	}
	cmd.Flags().StringVar(&c.NomeAluno, "nome", "", "nome do aluno")
	cmd.Flags().StringVar(&c.CPF, "cpf", "", "CPF do aluno")
	cmd.Flags().StringVar(&c.Nascimento, "nascimento", "", "data de nascimento (YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.NomeResponsavel, "responsavel", "", "nome do responsável")
	cmd.Flags().StringVar(&c.Turma, "turma", "", "turma do aluno")
	cmd.Flags().StringVar(&c.Email, "email", "", "email de contato")
	cmd.Flags().StringVar(&c.Senha, "senha", "", "senha (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&c.ConfirmarSenha, "confirmar-senha", "", "repetição da senha")
	return cmd
}

func novoCmdEntrar(cfg config.Config) *cobra.Command {
	var documento, senha, nascimento string
	cmd := &cobra.Command{
		Use:   "entrar",
		Short: "Autentica com CPF e senha (ou data de nascimento DDMMAAAA)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			servico := aluno.NovoServico(env.client, env.store)
			if nascimento != "" {
				err = servico.EntrarComNascimento(cmd.Context(), documento, nascimento)
			} else {
				err = servico.Entrar(cmd.Context(), documento, senha)
			}
			if err != nil {
				return err
			}
			fmt.Println("Login efetuado.")
			return nil
		},
	}
	cmd.Flags().StringVar(&documento, "cpf", "", "CPF do aluno")
	cmd.Flags().StringVar(&senha, "senha", "", "senha da conta")
	cmd.Flags().StringVar(&nascimento, "nascimento", "", "data de nascimento DDMMAAAA (login do painel)")
	return cmd
}

func novoCmdSair(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sair",
		Short: "Encerra a sessão local",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			if err := env.store.Limpar(); err != nil {
				return err
			}
			fmt.Println("Sessão encerrada.")
			return nil
		},
	}
}

func novoCmdPlano(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "plano",
		Short: "Mostra o plano da turma",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			fluxo := checkout.NovoFlow(env.client, env.store)
			plano, err := fluxo.CarregarPlano(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Plano:      %s\n", plano.Nome)
			fmt.Printf("Total:      %s\n", plano.Total.FormatarBRL())
			fmt.Printf("Vencimento: dia %d\n", plano.DiaVencimento)
			fmt.Printf("Parcelas:   até %dx\n", plano.MaxParcelas)
			return nil
		},
	}
}

func novoCmdCheckout(cfg config.Config) *cobra.Command {
	var parcelas int
	var metodo string
	var confirmar bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Gera o preview do parcelamento e, com --confirmar, fecha o contrato",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			fluxo := checkout.NovoFlow(env.client, env.store)
			if _, err := fluxo.CarregarPlano(cmd.Context()); err != nil {
				return err
			}

			linhas, err := fluxo.SelecionarParcelas(cmd.Context(), parcelas)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Parcela\tVencimento\tValor")
			for _, l := range linhas {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", l.Numero, l.Vencimento, l.Valor.FormatarBRL())
			}
			tw.Flush()

			if !confirmar {
				fmt.Println("\nPreview OK. Rode de novo com --confirmar para fechar o contrato.")
				return nil
			}

			contratoID, err := fluxo.Confirmar(cmd.Context(), checkout.Metodo(metodo))
			if err != nil {
				return err
			}
			if contratoID == "" {
				fmt.Println("\nContrato confirmado! (sem contract_id na resposta)")
			} else {
				fmt.Printf("\nContrato confirmado! contract_id: %s\n", contratoID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&parcelas, "parcelas", 0, "quantidade de parcelas")
	cmd.Flags().StringVar(&metodo, "metodo", "pix", "método de pagamento: pix ou card")
	cmd.Flags().BoolVar(&confirmar, "confirmar", false, "confirma o contrato após o preview")
	_ = cmd.MarkFlagRequired("parcelas")
	return cmd
}

func novoCmdPainel(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "painel",
		Short: "Mostra o painel do aluno (contrato e faturas)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			painel, err := aluno.NovoServico(env.client, env.store).CarregarPainel(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%s — %s\n", painel.AlunoNome, painel.Turma)
			fmt.Printf("Total: %s  Pago: %s  Restante: %s  (%d%%)\n\n",
				painel.Contrato.Total.FormatarBRL(),
				painel.Contrato.Pago.FormatarBRL(),
				painel.Contrato.Restante.FormatarBRL(),
				painel.Contrato.ProgressoPorcento)

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Parcela\tVencimento\tValor\tStatus")
			for _, f := range painel.Faturas {
				fmt.Fprintf(tw, "%d/%d\t%s\t%s\t%s\n", f.Numero, f.Total, f.Vencimento, f.Valor.FormatarBRL(), f.Status)
			}
			tw.Flush()

			if painel.FaturaAtual != nil && !painel.FaturaAtual.Paga() {
				fmt.Printf("\nFatura em aberto: %d/%d — pague com: portal-aluno pagar --fatura %s\n",
					painel.FaturaAtual.Numero, painel.FaturaAtual.Total, painel.FaturaAtual.ID)
			}
			return nil
		},
	}
}

func novoCmdPagar(cfg config.Config) *cobra.Command {
	var faturaID, metodo string
	cmd := &cobra.Command{
		Use:   "pagar",
		Short: "Gera a cobrança de uma fatura (Pix ou boleto)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := novoAmbiente(cfg)
			if err != nil {
				return err
			}
			inst, err := pagamento.NovoIniciador(env.client).
				Iniciar(cmd.Context(), faturaID, pagamento.Metodo(metodo))
			if err != nil {
				return err
			}

			fmt.Printf("Tipo: %s\n", inst.Tipo)
			if inst.MPPaymentID != "" {
				fmt.Printf("MP ID: %s\n", inst.MPPaymentID)
			}
			if inst.PixDisponivel() {
				fmt.Printf("Pix copia e cola:\n%s\n", inst.PixCopiaECola)
			}
			if inst.BoletoDisponivel() {
				fmt.Printf("Boleto: %s\n", inst.BoletoURL)
			}
			if !inst.PixDisponivel() && !inst.BoletoDisponivel() {
				fmt.Println("Instrumento indisponível no momento, tente novamente.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&faturaID, "fatura", "", "id da fatura")
	cmd.Flags().StringVar(&metodo, "metodo", "pix", "método: pix ou boleto")
	_ = cmd.MarkFlagRequired("fatura")
	return cmd
}

func novoCmdSandbox(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sandbox",
		Short: "Sobe o backend local de desenvolvimento",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := sandbox.NovoServidor(cfg.SandboxSegredo)
			cpfDemo, senha, nascimento := srv.Semear()
			fmt.Printf("Aluno de demonstração: CPF %s, senha %q, nascimento %s\n", cpfDemo, senha, nascimento)
			fmt.Printf("Aponte o portal com FI_API_BASE=http://localhost:%s/api\n", cfg.SandboxPorta)
			return srv.Servir(cfg.SandboxPorta)
		},
	}
}
