package aluno

import (
	"fmt"
	"strings"

	"github.com/FormaturaIntegrada/portal-aluno/internal/cpf"
)

// ConverterSenhaParaData transforma a senha DDMMAAAA na data
// YYYY-MM-DD que o backend espera no login por nascimento.
func ConverterSenhaParaData(ddmmaaaa string) (string, error) {
	d := cpf.SomenteDigitos(ddmmaaaa)
	if len(d) != 8 {
		return "", fmt.Errorf("a senha deve ser a data de nascimento no formato DDMMAAAA")
	}
	return fmt.Sprintf("%s-%s-%s", d[4:8], d[2:4], d[0:2]), nil
}

// FormatarDataBR converte YYYY-MM-DD em DD/MM/YYYY para exibição.
// Entrada fora do formato volta como veio.
func FormatarDataBR(data string) string {
	partes := strings.SplitN(data, "-", 3)
	if len(partes) != 3 || partes[0] == "" || partes[1] == "" || partes[2] == "" {
		return data
	}
	return fmt.Sprintf("%s/%s/%s", partes[2], partes[1], partes[0])
}

// MapearStatus traduz o status da fatura para o rótulo exibido.
func MapearStatus(status string) string {
	switch status {
	case "paid":
		return "Pago"
	case "overdue":
		return "Atrasado"
	}
	return "Aberto"
}
