package sandbox

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/FormaturaIntegrada/portal-aluno/internal/cpf"
	"github.com/FormaturaIntegrada/portal-aluno/internal/dinheiro"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

func responderJSON(w http.ResponseWriter, status int, corpo any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(corpo)
}

func responderErro(w http.ResponseWriter, status int, msg string) {
	responderJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// POST /register/
func (s *Servidor) registrar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome           string `json:"student_name"`
		CPF            string `json:"cpf"`
		Nascimento     string `json:"birth_date"`
		Responsavel    string `json:"responsible_name"`
		Turma          string `json:"turma"`
		Email          string `json:"email"`
		Senha          string `json:"password"`
		ConfirmarSenha string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	req.CPF = cpf.SomenteDigitos(req.CPF)
	if !cpf.Valido(req.CPF) {
		responderErro(w, http.StatusBadRequest, "CPF inválido")
		return
	}
	if len(req.Senha) < 6 || req.Senha != req.ConfirmarSenha {
		responderErro(w, http.StatusBadRequest, "Senha inválida")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		responderErro(w, http.StatusInternalServerError, "Erro ao cadastrar")
		return
	}
	aluno := &Aluno{
		Nome:        req.Nome,
		CPF:         req.CPF,
		Nascimento:  req.Nascimento,
		Responsavel: req.Responsavel,
		Turma:       req.Turma,
		Email:       req.Email,
		SenhaHash:   string(hash),
	}
	if err := s.estado.cadastrar(aluno); err != nil {
		responderErro(w, http.StatusConflict, err.Error())
		return
	}
	responderJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

// POST /login/ aceita {cpf, password} ou {cpf, birth_date}.
func (s *Servidor) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CPF        string `json:"cpf"`
		Senha      string `json:"password"`
		Nascimento string `json:"birth_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	aluno, ok := s.estado.alunoPorCPF(cpf.SomenteDigitos(req.CPF))
	if !ok {
		responderErro(w, http.StatusUnauthorized, "CPF ou senha inválidos")
		return
	}

	switch {
	case req.Nascimento != "":
		if aluno.Nascimento != req.Nascimento {
			responderErro(w, http.StatusUnauthorized, "CPF ou data de nascimento inválidos")
			return
		}
	case req.Senha != "":
		if bcrypt.CompareHashAndPassword([]byte(aluno.SenhaHash), []byte(req.Senha)) != nil {
			responderErro(w, http.StatusUnauthorized, "CPF ou senha inválidos")
			return
		}
	default:
		responderErro(w, http.StatusBadRequest, "Informe senha ou data de nascimento")
		return
	}

	token, err := GerarToken(s.segredo, aluno.ID)
	if err != nil {
		responderErro(w, http.StatusInternalServerError, "Erro ao emitir token")
		return
	}
	responderJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"token":        token,
		"student_id":   aluno.ID,
		"student_name": aluno.Nome,
		"turma":        aluno.Turma,
	})
}

// GET /plan/for-student/ (autenticado)
func (s *Servidor) plano(w http.ResponseWriter, r *http.Request) {
	_ = alunoDoContexto(r)
	p := s.estado.plano
	responderJSON(w, http.StatusOK, map[string]any{
		"name":             p.Nome,
		"total":            p.Total,
		"due_day":          p.DiaVencimento,
		"max_installments": p.MaxParcelas,
	})
}

// POST /contract/preview/ (autenticado)
func (s *Servidor) preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Parcelas int `json:"installments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Parcelas < 1 || req.Parcelas > s.estado.plano.MaxParcelas {
		responderErro(w, http.StatusBadRequest, "Quantidade de parcelas fora do plano")
		return
	}

	linhas := make([]map[string]any, 0, req.Parcelas)
	for _, f := range s.estado.cronograma(req.Parcelas) {
		linhas = append(linhas, map[string]any{
			"installment": f.Numero,
			"due_date":    f.Vencimento,
			"value":       f.Valor,
		})
	}
	responderJSON(w, http.StatusOK, map[string]any{"ok": true, "schedule": linhas})
}

// POST /contract/confirm/ (autenticado)
func (s *Servidor) confirmar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Parcelas int    `json:"installments"`
		Metodo   string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Parcelas < 1 || req.Parcelas > s.estado.plano.MaxParcelas {
		responderErro(w, http.StatusBadRequest, "Quantidade de parcelas fora do plano")
		return
	}
	if req.Metodo != "pix" && req.Metodo != "card" {
		responderErro(w, http.StatusBadRequest, "Método de pagamento não aceito")
		return
	}

	c := s.estado.confirmar(alunoDoContexto(r), req.Parcelas, req.Metodo)
	responderJSON(w, http.StatusCreated, map[string]any{"ok": true, "contract_id": c.ID})
}

// GET /dashboard/{id}/
func (s *Servidor) painel(w http.ResponseWriter, r *http.Request) {
	alunoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		responderErro(w, http.StatusBadRequest, "id inválido")
		return
	}
	aluno, ok := s.estado.alunoPorID(alunoID)
	if !ok {
		responderErro(w, http.StatusNotFound, "Aluno não encontrado")
		return
	}
	contrato, ok := s.estado.contratoDoAluno(alunoID)
	if !ok {
		responderErro(w, http.StatusNotFound, "Aluno ainda não confirmou contrato")
		return
	}

	faturas := s.estado.faturasDoContrato(contrato.ID)
	sort.Slice(faturas, func(i, j int) bool { return faturas[i].Numero < faturas[j].Numero })

	hoje := time.Now().Format("2006-01-02")
	var pago dinheiro.Centavos
	invoices := make([]map[string]any, 0, len(faturas))
	for _, f := range faturas {
		status := "open"
		switch {
		case f.Paga:
			status = "paid"
			pago += f.Valor
		case f.Vencimento < hoje:
			status = "overdue"
		}
		invoices = append(invoices, map[string]any{
			"id":       f.ID,
			"number":   f.Numero,
			"due_date": f.Vencimento,
			"value":    f.Valor,
			"status":   status,
		})
	}

	total := s.estado.plano.Total
	progresso := 0
	if total > 0 {
		progresso = int(int64(pago) * 100 / int64(total))
	}
	responderJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"student": map[string]any{
			"name":  aluno.Nome,
			"turma": aluno.Turma,
		},
		"contract": map[string]any{
			"plan_total":       total,
			"paid_total":       pago,
			"remaining_total":  total - pago,
			"progress_percent": progresso,
			"installments":     contrato.Parcelas,
		},
		"invoices": invoices,
	})
}

// POST /invoices/{id}/pay
func (s *Servidor) pagar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Metodo string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Metodo != "pix" && req.Metodo != "boleto" {
		responderErro(w, http.StatusBadRequest, "Método de pagamento não aceito")
		return
	}

	fatura, ok := s.estado.fatura(mux.Vars(r)["id"])
	if !ok {
		responderErro(w, http.StatusNotFound, "Fatura não encontrada")
		return
	}

	pagamentoID := uuid.NewString()
	resposta := map[string]any{
		"ok":            true,
		"type":          req.Metodo,
		"mp_payment_id": pagamentoID,
	}
	if req.Metodo == "pix" {
		payload := "00020126sandbox" + fatura.ID + pagamentoID + "6304ABCD"
		resposta["pix_copia_cola"] = payload
		resposta["pix_qr_base64"] = base64.StdEncoding.EncodeToString([]byte(payload))
	} else {
		resposta["boleto_url"] = "https://sandbox.local/boletos/" + fatura.ID + ".pdf"
	}
	responderJSON(w, http.StatusOK, resposta)
}
