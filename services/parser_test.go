package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmd12/fiorence1/models"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"100,50", 100.50},
		{"100.50", 100.50},
		{"R$ 1.000,00", 1000.00},
		{"-45.00", -45.00},
		{"-89,90", -89.90},
		{"500", 500},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.raw)
		require.NoError(t, err, "ParseAmount(%q)", tc.raw)
		assert.InDelta(t, tc.want, got, 1e-9, "ParseAmount(%q)", tc.raw)
	}

	_, err := ParseAmount("abc")
	assert.Error(t, err)
}

func TestParseDateString(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"03/08/2025", "2025-08-03"},
		{"03-08-2025", "2025-08-03"},
		{"03.08.2025", "2025-08-03"},
		{"10/01/25", "2025-01-10"},
		{"2025-01-10", "2025-01-10"},
		{"2025/01/10", "2025-01-10"},
		{"2025-01-10 14:30:00", "2025-01-10"},
		{"not a date", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseDateString(tc.raw), "ParseDateString(%q)", tc.raw)
	}
}

func TestParseDateStringIdempotent(t *testing.T) {
	// A canonical date must survive a second parse unchanged.
	first := ParseDateString("03/08/2025")
	require.Equal(t, "2025-08-03", first)
	assert.Equal(t, first, ParseDateString(first))
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "2025-08-03", ExtractDate("03/08/2025 PAGAMENTO CONTA LUZ -89,90"))
	assert.Equal(t, "", ExtractDate("PAGAMENTO SEM DATA -89,90"))
}

func TestExtractAmount(t *testing.T) {
	amount, ok := ExtractAmount("03/08/2025 PAGAMENTO CONTA LUZ -89,90")
	require.True(t, ok)
	assert.InDelta(t, 89.90, amount, 1e-9)

	amount, ok = ExtractAmount("compra R$ 1.234,56 no mercado")
	require.True(t, ok)
	assert.InDelta(t, 1234.56, amount, 1e-9)

	_, ok = ExtractAmount("linha sem valor nenhum")
	assert.False(t, ok)
}

func TestDetectType(t *testing.T) {
	assert.Equal(t, models.TypeExpense, DetectType("PAGAMENTO CONTA LUZ"))
	assert.Equal(t, models.TypeIncome, DetectType("PIX RECEBIDO CLIENTE"))
	assert.Equal(t, models.TypeIncome, DetectType("salário do mês"))

	// Expense indicators win ties.
	assert.Equal(t, models.TypeExpense, DetectType("pix enviado com reembolso"))

	// No indicator at all defaults to expense.
	assert.Equal(t, models.TypeExpense, DetectType("lançamento avulso"))
}

func TestParseLineUtilityBill(t *testing.T) {
	parser := NewParser(NewClassifier())

	candidate := parser.ParseLine("03/08/2025 PAGAMENTO CONTA LUZ -89,90", models.ContextBusiness)
	require.NotNil(t, candidate)

	assert.Equal(t, "2025-08-03", candidate.Date)
	assert.InDelta(t, 89.90, candidate.Amount, 1e-9)
	assert.Equal(t, models.TypeExpense, candidate.Type)
	assert.Equal(t, "PAGAMENTO CONTA LUZ", candidate.Description)
	assert.Equal(t, "Casa e Utilidades", candidate.Category)
	assert.Equal(t, models.SourceDocument, candidate.Source)
	assert.Equal(t, models.ContextBusiness, candidate.Context)
}

func TestParseLinePixIncome(t *testing.T) {
	parser := NewParser(NewClassifier())

	candidate := parser.ParseLine("02/08/2025 PIX RECEBIDO CLIENTE +500,00", models.ContextBusiness)
	require.NotNil(t, candidate)

	assert.Equal(t, "2025-08-02", candidate.Date)
	assert.InDelta(t, 500.00, candidate.Amount, 1e-9)
	assert.Equal(t, models.TypeIncome, candidate.Type)
	assert.Equal(t, "PIX RECEBIDO CLIENTE", candidate.Description)
	assert.Equal(t, "PIX", candidate.Category)
}

func TestParseLineRejectsNonTransactions(t *testing.T) {
	parser := NewParser(NewClassifier())

	assert.Nil(t, parser.ParseLine("curta", models.ContextPersonal))
	assert.Nil(t, parser.ParseLine("linha longa o bastante mas sem data 89,90", models.ContextPersonal))
	assert.Nil(t, parser.ParseLine("03/08/2025 linha com data mas sem valor", models.ContextPersonal))
}

func TestParseRow(t *testing.T) {
	parser := NewParser(NewClassifier())
	columns := []string{"Data", "Valor", "Descrição"}

	candidate := parser.ParseRow(columns, map[string]string{
		"Data":      "2025-01-10",
		"Valor":     "-45.00",
		"Descrição": "Posto Shell",
	}, models.ContextPersonal)
	require.NotNil(t, candidate)

	assert.Equal(t, "2025-01-10", candidate.Date)
	assert.InDelta(t, 45.00, candidate.Amount, 1e-9)
	assert.Equal(t, models.TypeExpense, candidate.Type)
	assert.Equal(t, "Posto Shell", candidate.Description)
	assert.Equal(t, "Combustível", candidate.Category)
	assert.Equal(t, models.SourceSpreadsheet, candidate.Source)
}

func TestParseRowSignDecidesDirection(t *testing.T) {
	parser := NewParser(NewClassifier())
	columns := []string{"date", "amount", "memo"}

	candidate := parser.ParseRow(columns, map[string]string{
		"date":   "2025-08-02",
		"amount": "500.00",
		"memo":   "Recebimento cliente",
	}, models.ContextBusiness)
	require.NotNil(t, candidate)
	assert.Equal(t, models.TypeIncome, candidate.Type)
	assert.InDelta(t, 500.00, candidate.Amount, 1e-9)
}

func TestParseRowMissingColumns(t *testing.T) {
	parser := NewParser(NewClassifier())

	assert.Nil(t, parser.ParseRow([]string{"Valor"}, map[string]string{"Valor": "10,00"}, models.ContextPersonal))
	assert.Nil(t, parser.ParseRow([]string{"Data"}, map[string]string{"Data": "2025-01-01"}, models.ContextPersonal))
	assert.Nil(t, parser.ParseRow(
		[]string{"Data", "Valor"},
		map[string]string{"Data": "sem data", "Valor": "10,00"},
		models.ContextPersonal,
	))
}

func TestExtractDescriptionFallback(t *testing.T) {
	// A line that is nothing but date and amount falls back to the generic
	// description instead of an empty string.
	desc := ExtractDescription("03/08/2025 -89,90")
	assert.Equal(t, descriptionFallback, desc)
}
