package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tamanho Caminhão", "TAMANHO CAMINHAO"},
		{"  valor   km ", "VALOR KM"},
		{"DESCRIÇÃO PRODUTO", "DESCRICAO PRODUTO"},
		{"tc até 10.000 l", "TC ATE 10.000 L"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.input), "input %q", tt.input)
	}
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Sao Joao", StripAccents("São João"))
	assert.Equal(t, "plain", StripAccents("plain"))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("Tamanho do CAMINHÃO (m)", "tamanho caminhao", "tamanho do caminhao"))
	assert.True(t, ContainsAny("  TAMANHO   caminhão", "tamanho caminhao"))
	assert.False(t, ContainsAny("Tamanho do CAMINHÃO (m)", "tamanho caminhao"))
	assert.True(t, ContainsAny("Valor KM", "preco km", "valor km"))
	assert.False(t, ContainsAny("Valor KM", "tamanho"))
	assert.False(t, ContainsAny("anything", ""))
}
