package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransliterate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"cyrillic word", "Пицца", "pitstsa"},
		{"mixed with spaces", "Суши Куб Меню", "sushi-kub-menyu"},
		{"latin passthrough", "Margherita Pizza", "margherita-pizza"},
		{"punctuation dropped", "Ролл «Филадельфия»!", "roll-filadelfiya"},
		{"soft and hard signs", "объявление", "obyavlenie"},
		{"dash runs collapse", "a --- b", "a-b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Transliterate(tt.in))
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "script", SanitizeString("  <script>  "))
	assert.Equal(t, "plain text", SanitizeString("plain text"))
	assert.Equal(t, "", SanitizeString("   "))
}
