package services

import (
	"strings"
	"unicode/utf8"
)

// fallbackCategory is the catch-all bucket used whenever no rule matches.
const fallbackCategory = "Outros"

// categoryRule maps a category name to the keywords that select it. Rules are
// kept in a slice because scan order is part of the contract: the first
// category whose keyword appears in the description wins.
type categoryRule struct {
	Name     string
	Keywords []string
}

var categoryRules = []categoryRule{
	{"Alimentação", []string{
		"mercado", "supermercado", "padaria", "restaurante", "lanchonete",
		"pizzaria", "hamburgueria", "açougue", "hortifruti", "extra",
		"carrefour", "pão de açúcar", "big", "walmart", "ifood", "uber eats",
	}},
	{"Combustível", []string{
		"posto", "shell", "petrobras", "ipiranga", "ale", "br",
		"combustível", "gasolina", "etanol", "diesel",
	}},
	{"Transporte", []string{
		"uber", "taxi", "99", "cabify", "ônibus", "metrô", "trem",
		"estacionamento", "pedágio", "vlt", "brt",
	}},
	{"Saúde", []string{
		"farmácia", "drogaria", "hospital", "clínica", "laboratório",
		"médico", "dentista", "fisioterapeuta", "psicólogo",
	}},
	{"Educação", []string{
		"escola", "faculdade", "universidade", "curso", "livro",
		"material escolar", "mensalidade",
	}},
	{"Lazer", []string{
		"cinema", "teatro", "show", "festa", "bar", "balada",
		"viagem", "hotel", "pousada", "turismo",
	}},
	{"Casa e Utilidades", []string{
		"aluguel", "condomínio", "luz", "energia", "água", "gás",
		"internet", "telefone", "tv", "streaming", "netflix",
	}},
	{"Vestuário", []string{
		"loja", "roupa", "calçado", "sapato", "tênis", "camisa",
		"calça", "vestido", "shopping",
	}},
	{"PIX", []string{
		"pix", "transferência pix", "pix enviado", "pix recebido",
	}},
	{"Cartão de Crédito", []string{
		"cartão", "crédito", "mastercard", "visa", "elo",
	}},
	{"Bancos e Taxas", []string{
		"banco", "taxa", "tarifa", "anuidade", "juros", "iof",
	}},
	{"Supermercados", []string{
		"supermercado", "mercado", "hiper", "atacado",
	}},
}

// specialCheck is a second-pass substring rule applied when no keyword rule
// matched. Checked in declaration order.
type specialCheck struct {
	Terms    []string
	Category string
}

var specialChecks = []specialCheck{
	{[]string{"pix"}, "PIX"},
	{[]string{"cartão", "mastercard", "visa"}, "Cartão de Crédito"},
	{[]string{"super", "mercado", "extra", "carrefour"}, "Supermercados"},
	{[]string{"posto", "combustível", "gasolina"}, "Combustível"},
	{[]string{"farmácia", "remédio", "medicamento"}, "Saúde"},
	{[]string{"restaurante", "lanche", "comida"}, "Alimentação"},
}

// stopwords are skipped when deriving an ad-hoc category name from a
// description that matched nothing else.
var stopwords = map[string]bool{
	"de": true, "da": true, "do": true, "em": true, "para": true,
	"com": true, "no": true, "na": true, "compra": true,
	"pagamento": true, "transferência": true,
}

var categoryColors = map[string]string{
	"Alimentação":       "#22C55E",
	"Combustível":       "#F59E0B",
	"Transporte":        "#3B82F6",
	"Saúde":             "#EF4444",
	"Educação":          "#8B5CF6",
	"Lazer":             "#EC4899",
	"Casa e Utilidades": "#06B6D4",
	"Vestuário":         "#F97316",
	"PIX":               "#10B981",
	"Cartão de Crédito": "#DC2626",
	"Bancos e Taxas":    "#6B7280",
	"Supermercados":     "#16A34A",
	"Outros":            "#9CA3AF",
}

var categoryIcons = map[string]string{
	"Alimentação":       "utensils",
	"Combustível":       "fuel",
	"Transporte":        "car",
	"Saúde":             "heart",
	"Educação":          "book",
	"Lazer":             "gamepad-2",
	"Casa e Utilidades": "home",
	"Vestuário":         "shirt",
	"PIX":               "smartphone",
	"Cartão de Crédito": "credit-card",
	"Bancos e Taxas":    "building",
	"Supermercados":     "shopping-cart",
	"Outros":            "folder",
}

var categoryEmojis = map[string]string{
	"Alimentação":       "🍽️",
	"Combustível":       "⛽",
	"Transporte":        "🚗",
	"Saúde":             "❤️",
	"Educação":          "📚",
	"Lazer":             "🎮",
	"Casa e Utilidades": "🏠",
	"Vestuário":         "👕",
	"PIX":               "📱",
	"Cartão de Crédito": "💳",
	"Bancos e Taxas":    "🏛️",
	"Supermercados":     "🛒",
	"Outros":            "📁",
}

// Classifier maps free-text descriptions to category names. It is pure and
// total: it never fails and always returns a non-empty name.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Suggest returns the category name for a description.
func (c *Classifier) Suggest(description string) string {
	if description == "" {
		return fallbackCategory
	}

	lower := strings.ToLower(description)

	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Name
			}
		}
	}

	for _, check := range specialChecks {
		for _, term := range check.Terms {
			if strings.Contains(lower, term) {
				return check.Category
			}
		}
	}

	// Last resort: promote the first significant token to an ad-hoc name.
	for _, word := range strings.Fields(lower) {
		if utf8.RuneCountInString(word) > 3 && !stopwords[word] {
			return capitalize(word)
		}
	}

	return fallbackCategory
}

// ColorFor returns the display color for a known category name, or the
// neutral default.
func (c *Classifier) ColorFor(name string) string {
	if color, ok := categoryColors[name]; ok {
		return color
	}
	return categoryColors[fallbackCategory]
}

func (c *Classifier) IconFor(name string) string {
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}
	return categoryIcons[fallbackCategory]
}

func (c *Classifier) EmojiFor(name string) string {
	if emoji, ok := categoryEmojis[name]; ok {
		return emoji
	}
	return categoryEmojis[fallbackCategory]
}

// DefaultCategoryNames returns the built-in category names in rule order,
// with the catch-all appended. Used to seed a new user's category set.
func (c *Classifier) DefaultCategoryNames() []string {
	names := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		names = append(names, rule.Name)
	}
	return append(names, fallbackCategory)
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
