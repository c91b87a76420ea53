package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// RawContent kinds.
const (
	ContentText = "text"
	ContentRows = "rows"
)

// RawContent is the transient output of extraction: either free text or an
// ordered sequence of rows keyed by column name. It is produced once per
// ingestion run and consumed once by the parser.
type RawContent struct {
	Kind    string
	Text    string
	Columns []string
	Rows    []map[string]string
}

// ImageTextExtractor is the OCR collaborator. The engine itself is external;
// only its "bytes in, text out" contract matters here.
type ImageTextExtractor interface {
	ExtractText(ctx context.Context, image []byte, language string) (string, error)
}

var ErrNoOCRBackend = errors.New("no OCR backend configured")

// ocrLanguage is the language hint passed to the OCR backend.
const ocrLanguage = "por"

// Extractor adapts the PDF, OCR and spreadsheet backends behind a single
// extract call keyed by the declared file extension.
type Extractor struct {
	ocr ImageTextExtractor
}

func NewExtractor(ocr ImageTextExtractor) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract converts raw file bytes into RawContent according to the declared
// extension. Extraction failure is fatal to the ingestion run.
func (e *Extractor) Extract(ctx context.Context, data []byte, extension string) (*RawContent, error) {
	switch strings.ToLower(extension) {
	case "pdf":
		return e.extractPDF(data)
	case "png", "jpg", "jpeg":
		return e.extractImage(ctx, data)
	case "csv":
		return e.extractCSV(data)
	case "xlsx", "xls":
		return e.extractWorkbook(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q", extension)
	}
}

func (e *Extractor) extractPDF(data []byte) (*RawContent, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract pdf text: %w", err)
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf text: %w", err)
	}

	return &RawContent{Kind: ContentText, Text: string(text)}, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (*RawContent, error) {
	if e.ocr == nil {
		return nil, ErrNoOCRBackend
	}

	text, err := e.ocr.ExtractText(ctx, data, ocrLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to run ocr: %w", err)
	}

	return &RawContent{Kind: ContentText, Text: text}, nil
}

func (e *Extractor) extractCSV(data []byte) (*RawContent, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return &RawContent{Kind: ContentRows}, nil
	}

	return tabularContent(records), nil
}

func (e *Extractor) extractWorkbook(data []byte) (*RawContent, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return &RawContent{Kind: ContentRows}, nil
	}

	return tabularContent(records), nil
}

// tabularContent turns a header row plus data rows into RawContent rows.
func tabularContent(records [][]string) *RawContent {
	columns := make([]string, len(records[0]))
	for i, name := range records[0] {
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return &RawContent{Kind: ContentRows, Columns: columns, Rows: rows}
}
