// Package dinheiro representa valores monetários em centavos (BRL).
// O backend envia números decimais; a conversão é feita sobre o texto
// do JSON para não deixar erro binário de ponto flutuante vazar para
// os totais exibidos.
package dinheiro

import (
	"fmt"
	"strconv"
	"strings"
)

// Centavos é o valor em unidade mínima da moeda.
type Centavos int64

// UnmarshalJSON aceita número decimal ("1234.5", "1234") ou string.
func (c *Centavos) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	v, err := Converter(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalJSON emite o valor como número decimal com duas casas.
func (c Centavos) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal()), nil
}

// Converter interpreta um decimal em texto ("100", "100.5", "100.50")
// como centavos, sem passar por float64.
func Converter(s string) (Centavos, error) {
	s = strings.TrimSpace(s)
	negativo := strings.HasPrefix(s, "-")
	if negativo {
		s = s[1:]
	}
	inteiro, fracao, _ := strings.Cut(s, ".")
	if inteiro == "" {
		inteiro = "0"
	}
	switch len(fracao) {
	case 0:
		fracao = "00"
	case 1:
		fracao += "0"
	case 2:
	default:
		fracao = fracao[:2]
	}
	i, err := strconv.ParseInt(inteiro, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("valor monetário inválido %q: %w", s, err)
	}
	f, err := strconv.ParseInt(fracao, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("valor monetário inválido %q: %w", s, err)
	}
	v := Centavos(i*100 + f)
	if negativo {
		v = -v
	}
	return v, nil
}

// Decimal devolve o valor como "1234.50" (formato de API).
func (c Centavos) Decimal() string {
	v := int64(c)
	sinal := ""
	if v < 0 {
		sinal = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sinal, v/100, v%100)
}

// FormatarBRL devolve o valor no formato "R$ 1.234,56".
func (c Centavos) FormatarBRL() string {
	v := int64(c)
	sinal := ""
	if v < 0 {
		sinal = "-"
		v = -v
	}
	inteiro := strconv.FormatInt(v/100, 10)
	var b strings.Builder
	for i, r := range inteiro {
		if i > 0 && (len(inteiro)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sinal, b.String(), v%100)
}
