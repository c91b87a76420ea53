package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestKeywordRules(t *testing.T) {
	classifier := NewClassifier()

	cases := []struct {
		description string
		want        string
	}{
		{"compra no supermercado Carrefour", "Alimentação"},
		{"POSTO SHELL RODOVIA", "Combustível"},
		{"corrida uber centro", "Transporte"},
		{"farmácia são joão", "Saúde"},
		{"mensalidade faculdade", "Educação"},
		{"conta de luz agosto", "Casa e Utilidades"},
		{"PIX RECEBIDO CLIENTE", "PIX"},
		{"anuidade banco itau", "Bancos e Taxas"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifier.Suggest(tc.description), "Suggest(%q)", tc.description)
	}
}

func TestSuggestEmptyDescription(t *testing.T) {
	classifier := NewClassifier()
	assert.Equal(t, "Outros", classifier.Suggest(""))
}

func TestSuggestTokenFallback(t *testing.T) {
	classifier := NewClassifier()

	// No rule matches, so the first significant token becomes an ad-hoc name.
	assert.Equal(t, "Consultoria", classifier.Suggest("consultoria mensal"))

	// Stopwords and short tokens never become category names.
	assert.Equal(t, "Outros", classifier.Suggest("de em no"))
}

func TestSuggestNeverEmpty(t *testing.T) {
	classifier := NewClassifier()

	inputs := []string{"", "   ", "a b c", "!!!", "de de de", "xyzwvu"}
	for _, input := range inputs {
		assert.NotEmpty(t, classifier.Suggest(input), "Suggest(%q)", input)
	}
}

func TestCategoryStyling(t *testing.T) {
	classifier := NewClassifier()

	assert.Equal(t, "#22C55E", classifier.ColorFor("Alimentação"))
	assert.Equal(t, "fuel", classifier.IconFor("Combustível"))
	assert.Equal(t, "📱", classifier.EmojiFor("PIX"))

	// Unknown names get the neutral defaults.
	assert.Equal(t, "#9CA3AF", classifier.ColorFor("Categoria Inventada"))
	assert.Equal(t, "folder", classifier.IconFor("Categoria Inventada"))
	assert.Equal(t, "📁", classifier.EmojiFor("Categoria Inventada"))
}

func TestDefaultCategoryNames(t *testing.T) {
	classifier := NewClassifier()

	names := classifier.DefaultCategoryNames()
	assert.Len(t, names, 13)
	assert.Equal(t, "Outros", names[len(names)-1])
	assert.Contains(t, names, "Alimentação")
	assert.Contains(t, names, "Supermercados")
}
