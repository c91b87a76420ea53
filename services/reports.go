package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/lucasmd12/fiorence1/models"
)

var reportHeader = []string{"Data", "Descrição", "Categoria", "Tipo", "Valor", "Status", "Contexto"}

// ReportsService renders a user's transactions as downloadable tabular
// reports. It is pure rendering; callers fetch the data.
type ReportsService struct{}

func NewReportsService() *ReportsService {
	return &ReportsService{}
}

// ExportCSV renders transactions as a CSV document with a trailing summary
// block. categoryNames maps category ids to display names.
func (s *ReportsService) ExportCSV(transactions []models.Transaction, categoryNames map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, tx := range transactions {
		record := []string{
			tx.Date,
			tx.Description,
			categoryNames[tx.CategoryID],
			tx.Type,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Status,
			tx.Context,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	income, expenses := sumByType(transactions)
	summaryRows := [][]string{
		{},
		{"Total de receitas", "", "", "", strconv.FormatFloat(income, 'f', 2, 64), "", ""},
		{"Total de despesas", "", "", "", strconv.FormatFloat(expenses, 'f', 2, 64), "", ""},
		{"Saldo", "", "", "", strconv.FormatFloat(income-expenses, 'f', 2, 64), "", ""},
	}
	for _, record := range summaryRows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv summary: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders transactions as a single-sheet workbook with the same
// layout as the CSV export.
func (s *ReportsService) ExportXLSX(transactions []models.Transaction, categoryNames map[string]string) ([]byte, error) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)

	header := make([]interface{}, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, tx := range transactions {
		row := []interface{}{
			tx.Date,
			tx.Description,
			categoryNames[tx.CategoryID],
			tx.Type,
			tx.Amount,
			tx.Status,
			tx.Context,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	income, expenses := sumByType(transactions)
	base := len(transactions) + 3
	summary := [][]interface{}{
		{"Total de receitas", "", "", "", income},
		{"Total de despesas", "", "", "", expenses},
		{"Saldo", "", "", "", income - expenses},
	}
	for i, row := range summary {
		cell := fmt.Sprintf("A%d", base+i)
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write xlsx summary: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sumByType(transactions []models.Transaction) (income, expenses float64) {
	for _, tx := range transactions {
		if tx.Type == models.TypeIncome {
			income += tx.Amount
		} else {
			expenses += tx.Amount
		}
	}
	return income, expenses
}
