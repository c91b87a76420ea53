package services

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lucasmd12/fiorence1/models"
)

func reportFixture() ([]models.Transaction, map[string]string) {
	transactions := []models.Transaction{
		{Date: "2025-08-02", Description: "PIX recebido cliente", CategoryID: "cat-pix",
			Type: models.TypeIncome, Amount: 500, Status: models.StatusPaid, Context: models.ContextBusiness},
		{Date: "2025-08-03", Description: "Conta de luz", CategoryID: "cat-casa",
			Type: models.TypeExpense, Amount: 89.90, Status: models.StatusPaid, Context: models.ContextBusiness},
	}
	names := map[string]string{"cat-pix": "PIX", "cat-casa": "Casa e Utilidades"}
	return transactions, names
}

func TestExportCSV(t *testing.T) {
	transactions, names := reportFixture()

	payload, err := NewReportsService().ExportCSV(transactions, names)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(records), 6)
	assert.Equal(t, []string{"Data", "Descrição", "Categoria", "Tipo", "Valor", "Status", "Contexto"}, records[0])
	assert.Equal(t, "PIX", records[1][2])
	assert.Equal(t, "89.90", records[2][4])

	// Summary block at the tail.
	tail := records[len(records)-3:]
	assert.Equal(t, "Total de receitas", tail[0][0])
	assert.Equal(t, "500.00", tail[0][4])
	assert.Equal(t, "Total de despesas", tail[1][0])
	assert.Equal(t, "89.90", tail[1][4])
	assert.Equal(t, "Saldo", tail[2][0])
	assert.Equal(t, "410.10", tail[2][4])
}

func TestExportXLSX(t *testing.T) {
	transactions, names := reportFixture()

	payload, err := NewReportsService().ExportXLSX(transactions, names)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer book.Close()

	sheet := book.GetSheetName(0)
	header, err := book.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Data", header)

	category, err := book.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "PIX", category)

	label, err := book.GetCellValue(sheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total de receitas", label)
}

func TestExportCSVEmpty(t *testing.T) {
	payload, err := NewReportsService().ExportCSV(nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Saldo")
}
