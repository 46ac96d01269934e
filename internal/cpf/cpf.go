// Package cpf valida e formata CPFs (dígitos verificadores módulo 11).
package cpf

import "strings"

// SomenteDigitos descarta qualquer caractere que não seja dígito.
func SomenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// Formatar aplica a máscara 000.000.000-00 de forma incremental,
// útil para campos de entrada (aceita CPF parcial).
func Formatar(s string) string {
	d := SomenteDigitos(s)
	if len(d) > 11 {
		d = d[:11]
	}
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// digitoVerificador calcula um DV sobre a base: posição k (1-indexada)
// pesa len(base)+1-k, soma módulo 11; resto < 2 vira 0.
func digitoVerificador(base string) int {
	soma := 0
	for i := 0; i < len(base); i++ {
		soma += int(base[i]-'0') * (len(base) + 1 - i)
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

// Valido confirma os dois dígitos verificadores de um CPF.
// Entrada pode vir mascarada; tudo que não for dígito é ignorado.
// Nunca gera pânico: entrada malformada retorna false.
func Valido(s string) bool {
	c := SomenteDigitos(s)
	if len(c) != 11 {
		return false
	}

	// Sequências de um dígito repetido passam no módulo 11 mas são inválidas.
	repetido := true
	for i := 1; i < 11; i++ {
		if c[i] != c[0] {
			repetido = false
			break
		}
	}
	if repetido {
		return false
	}

	dv1 := digitoVerificador(c[:9])
	dv2 := digitoVerificador(c[:10])
	return int(c[9]-'0') == dv1 && int(c[10]-'0') == dv2
}
