package dinheiro

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter(t *testing.T) {
	casos := []struct {
		entrada string
		quer    Centavos
	}{
		{"100", 10000},
		{"100.00", 10000},
		{"100.5", 10050},
		{"100.50", 10050},
		{"0.07", 7},
		{"0", 0},
		{"3600.00", 360000},
		{"-12.34", -1234},
		{".99", 99},
		{"19.999", 1999}, // terceira casa descartada
	}
	for _, c := range casos {
		v, err := Converter(c.entrada)
		require.NoError(t, err, "entrada %q", c.entrada)
		assert.Equal(t, c.quer, v, "entrada %q", c.entrada)
	}
}

func TestConverterInvalido(t *testing.T) {
	for _, entrada := range []string{"abc", "1,5", "12.x9"} {
		_, err := Converter(entrada)
		assert.Error(t, err, "entrada %q", entrada)
	}
}

// O clássico do binário: 0.1+0.2 não pode contaminar os totais.
func TestConverterSemErroDePontoFlutuante(t *testing.T) {
	a, err := Converter("0.1")
	require.NoError(t, err)
	b, err := Converter("0.2")
	require.NoError(t, err)
	assert.Equal(t, Centavos(30), a+b)
	assert.Equal(t, "0.30", (a + b).Decimal())
}

func TestUnmarshalJSON(t *testing.T) {
	var doc struct {
		Total Centavos `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"total": 3600.50}`), &doc))
	assert.Equal(t, Centavos(360050), doc.Total)

	require.NoError(t, json.Unmarshal([]byte(`{"total": "99.90"}`), &doc))
	assert.Equal(t, Centavos(9990), doc.Total)

	require.NoError(t, json.Unmarshal([]byte(`{"total": null}`), &doc))
	assert.Equal(t, Centavos(0), doc.Total)
}

func TestMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Centavos(360050))
	require.NoError(t, err)
	assert.Equal(t, "3600.50", string(raw))
}

func TestFormatarBRL(t *testing.T) {
	casos := []struct {
		valor Centavos
		quer  string
	}{
		{10000, "R$ 100,00"},
		{360000, "R$ 3.600,00"},
		{123456789, "R$ 1.234.567,89"},
		{7, "R$ 0,07"},
		{-1234, "-R$ 12,34"},
	}
	for _, c := range casos {
		assert.Equal(t, c.quer, c.valor.FormatarBRL())
	}
}
