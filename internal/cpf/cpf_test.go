package cpf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// dvReferencia recalcula um dígito verificador de forma independente
// da implementação, com o peso andando por contador decrescente.
func dvReferencia(base string) byte {
	peso := len(base) + 1
	soma := 0
	for _, r := range base {
		soma += int(r-'0') * peso
		peso--
	}
	resto := soma % 11
	if resto < 2 {
		return '0'
	}
	return byte('0' + 11 - resto)
}

func cpfValidoDeBase(base9 string) string {
	dv1 := dvReferencia(base9)
	return base9 + string(dv1) + string(dvReferencia(base9+string(dv1)))
}

func TestValidoConhecidos(t *testing.T) {
	casos := []struct {
		nome    string
		entrada string
		quer    bool
	}{
		{"referência válida", "52998224725", true},
		{"referência válida mascarada", "529.982.247-25", true},
		{"sequência conhecida", "12345678909", true},
		{"receita federal exemplo", "11144477735", true},
		{"dígitos trocados", "52998224752", false},
		{"primeiro DV errado", "52998224735", false},
		{"segundo DV errado", "52998224724", false},
		{"DVs zerados indevidos", "12345678900", false},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.quer, Valido(c.entrada))
		})
	}
}

func TestValidoRepetidos(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		entrada := strings.Repeat(string(d), 11)
		assert.False(t, Valido(entrada), "CPF %s deveria ser inválido", entrada)
	}
}

func TestValidoMalformados(t *testing.T) {
	entradas := []string{
		"",
		"abc",
		"529982247",       // curto
		"5299822472",      // 10 dígitos
		"529982247255",    // 12 dígitos
		"5299822472555555555x",
		"529.982.247-2",
		"cpf inválido",
		"🙂🙂🙂🙂🙂🙂🙂🙂🙂🙂🙂",
		strings.Repeat("9", 20),
	}
	for _, e := range entradas {
		assert.False(t, Valido(e), "entrada %q deveria ser inválida", e)
	}
}

// TestValidoPropriedade confronta a implementação com o cálculo de
// referência para um lote de bases, incluindo mutações dos DVs.
func TestValidoPropriedade(t *testing.T) {
	total := 0
	for i := 0; total < 60; i++ {
		base9 := fmt.Sprintf("%09d", (i*982451653+123456789)%1000000000)
		completo := cpfValidoDeBase(base9)
		if completo == strings.Repeat(string(completo[0]), 11) {
			continue
		}
		total++

		assert.True(t, Valido(completo), "CPF gerado %s deveria ser válido", completo)

		// Mudar qualquer um dos DVs tem de invalidar.
		for pos := 9; pos <= 10; pos++ {
			mutado := []byte(completo)
			mutado[pos] = '0' + (mutado[pos]-'0'+1)%10
			assert.False(t, Valido(string(mutado)), "mutação %s deveria ser inválida", mutado)
		}
	}
}

func TestSomenteDigitos(t *testing.T) {
	assert.Equal(t, "52998224725", SomenteDigitos("529.982.247-25"))
	assert.Equal(t, "", SomenteDigitos("abc-xyz"))
	assert.Equal(t, "12345678", SomenteDigitos("12/03/4567 8"))
}

func TestFormatar(t *testing.T) {
	casos := []struct{ entrada, quer string }{
		{"52998224725", "529.982.247-25"},
		{"529", "529"},
		{"5299", "529.9"},
		{"529982247", "529.982.247"},
		{"5299822472", "529.982.247-2"},
		{"52998224725999", "529.982.247-25"}, // excedente descartado
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.quer, Formatar(c.entrada))
	}
}
