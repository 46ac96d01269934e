package sandbox

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"
)

// Servidor é o backend sandbox pronto para servir.
type Servidor struct {
	estado  *Estado
	segredo string
}

func NovoServidor(segredo string) *Servidor {
	return &Servidor{estado: NovoEstado(), segredo: segredo}
}

// Semear cadastra um aluno de demonstração e devolve as credenciais.
func (s *Servidor) Semear() (cpf, senha, nascimento string) {
	cpf, senha, nascimento = "52998224725", "formatura", "2007-03-15"
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Erro ao semear sandbox:", err)
	}
	_ = s.estado.cadastrar(&Aluno{
		Nome:        "Maria Oliveira",
		CPF:         cpf,
		Nascimento:  nascimento,
		Responsavel: "José Oliveira",
		Turma:       "3º A 2026",
		Email:       "maria@example.com",
		SenhaHash:   string(hash),
	})
	return cpf, senha, nascimento
}

// Router monta as rotas no mesmo desenho do backend real.
func (s *Servidor) Router() *mux.Router {
	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/api/register/", s.registrar).Methods("POST")
	r.HandleFunc("/api/login/", s.login).Methods("POST")
	r.HandleFunc("/api/dashboard/{id}/", s.painel).Methods("GET")
	r.HandleFunc("/api/invoices/{id}/pay", s.pagar).Methods("POST")

	// Rotas autenticadas
	protegidas := r.PathPrefix("/api").Subrouter()
	protegidas.Use(s.autenticacao)
	protegidas.HandleFunc("/plan/for-student/", s.plano).Methods("GET")
	protegidas.HandleFunc("/contract/preview/", s.preview).Methods("POST")
	protegidas.HandleFunc("/contract/confirm/", s.confirmar).Methods("POST")

	return r
}

// Handler devolve o router com CORS liberado para o portal web local.
func (s *Servidor) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(s.Router())
}

// Servir sobe o sandbox na porta informada e bloqueia.
func (s *Servidor) Servir(porta string) error {
	fmt.Printf("Sandbox rodando em http://localhost:%s/api\n", porta)
	return http.ListenAndServe(":"+porta, s.Handler())
}
