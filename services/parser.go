package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lucasmd12/fiorence1/models"
)

// Lines shorter than this carry too little signal to be a transaction.
const minLineLength = 10

// Matcher chains are ordered slices: the first pattern that matches wins, and
// the order is part of the parsing contract.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`), // dd/mm/yyyy, dd-mm-yyyy, dd.mm.yyyy
	regexp.MustCompile(`(\d{2,4}[/.\-]\d{1,2}[/.\-]\d{1,2})`), // yyyy/mm/dd, yyyy-mm-dd
}

// Day-first formats come before year-first ones: statements are Brazilian.
var dateFormats = []string{
	"02/01/2006", "02-01-2006", "02.01.2006",
	"02/01/06", "02-01-06", "02.01.06",
	"2006/01/02", "2006-01-02", "2006.01.02",
	"2006-01-02 15:04:05",
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`R\$\s*(\d{1,3}(?:\.\d{3})*(?:,\d{2})?)`), // R$ 1.000,00
	regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*(?:,\d{2}))`),        // 1.000,00
	regexp.MustCompile(`(\d+,\d{2})`),                            // 100,50
	regexp.MustCompile(`(\d+\.\d{2})`),                           // 100.50
}

var amountStripPattern = regexp.MustCompile(`[R$\s]`)

// Expense indicators are checked first; a line that carries both an expense
// and an income phrase is an expense.
var negativeIndicators = []string{
	"débito", "saque", "pagamento", "transferência enviada", "compra",
	"taxa", "tarifa", "anuidade", "juros", "multa", "desconto",
	"pix enviado", "ted enviada", "doc enviado",
}

var positiveIndicators = []string{
	"crédito", "depósito", "transferência recebida", "pix recebido",
	"ted recebida", "doc recebido", "salário", "rendimento",
	"estorno", "reembolso",
}

// Merchant extraction is best-effort: these patterns occasionally return
// noise, and callers must not assume more than "a human-readable string,
// possibly wrong".
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:em|para|de)\s+([A-Z\s]+?)(?:\s+\d|\s*$)`), // EM POSTO SHELL
	regexp.MustCompile(`(?i)([A-Z][A-Z\s]{3,}?)(?:\s+\d|\s*$)`),          // MERCADO EXTRA
	regexp.MustCompile(`(?i)(\w+\s+\w+)(?:\s+\d|\s*$)`),                  // Posto Shell
}

const descriptionParseLimit = 100
const descriptionFallback = "Transação extraída de documento"

// Spreadsheet column vocabulary, matched case-insensitively by substring.
// First matching column wins per field.
var (
	dateColumnWords        = []string{"data", "date", "dt"}
	amountColumnWords      = []string{"valor", "amount", "quantia", "total"}
	descriptionColumnWords = []string{"descrição", "description", "histórico", "memo"}
)

// Parser turns one unit of raw content (a text line or a spreadsheet row) into
// zero or one candidate transaction. It is pure in-memory computation.
type Parser struct {
	classifier *Classifier
}

func NewParser(classifier *Classifier) *Parser {
	return &Parser{classifier: classifier}
}

// ParseLine extracts a candidate transaction from one line of free text.
// Returns nil when the line does not look like a transaction.
func (p *Parser) ParseLine(line, context string) *models.CandidateTransaction {
	line = strings.TrimSpace(line)
	if len([]rune(line)) < minLineLength {
		return nil
	}

	date := ExtractDate(line)
	if date == "" {
		return nil
	}

	amount, ok := ExtractAmount(line)
	if !ok {
		return nil
	}

	description := ExtractDescription(line)

	return &models.CandidateTransaction{
		Date:        date,
		Amount:      math.Abs(amount),
		Type:        DetectType(line),
		Description: description,
		Category:    p.classifier.Suggest(description),
		Context:     context,
		Source:      models.SourceDocument,
		RawLine:     line,
	}
}

// ParseRow extracts a candidate transaction from a spreadsheet row. Column
// names are scanned in sheet order against the field vocabularies. A row
// yields a candidate only when both a date and an amount cell parse; the sign
// of the amount decides the direction on this path.
func (p *Parser) ParseRow(columns []string, cells map[string]string, context string) *models.CandidateTransaction {
	dateCol := findColumn(columns, dateColumnWords)
	amountCol := findColumn(columns, amountColumnWords)
	descriptionCol := findColumn(columns, descriptionColumnWords)

	if dateCol == "" || amountCol == "" {
		return nil
	}

	date := ParseDateString(cells[dateCol])
	if date == "" {
		return nil
	}

	amount, err := ParseAmount(cells[amountCol])
	if err != nil {
		return nil
	}

	txType := models.TypeIncome
	if amount < 0 {
		txType = models.TypeExpense
	}

	description := ""
	if descriptionCol != "" {
		description = strings.TrimSpace(cells[descriptionCol])
	}

	return &models.CandidateTransaction{
		Date:        date,
		Amount:      math.Abs(amount),
		Type:        txType,
		Description: description,
		Category:    p.classifier.Suggest(description),
		Context:     context,
		Source:      models.SourceSpreadsheet,
	}
}

func findColumn(columns []string, words []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, word := range words {
			if strings.Contains(lower, word) {
				return col
			}
		}
	}
	return ""
}

// ExtractDate finds the first date-looking substring and normalizes it to
// yyyy-mm-dd. Returns "" when the text carries no parseable date.
func ExtractDate(text string) string {
	for _, pattern := range datePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if date := ParseDateString(m[1]); date != "" {
				return date
			}
		}
	}
	return ""
}

// ParseDateString tries the accepted date formats in order and renders the
// first hit as yyyy-mm-dd.
func ParseDateString(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// ExtractAmount finds the first monetary substring and parses it under
// Brazilian locale rules.
func ExtractAmount(text string) (float64, bool) {
	for _, pattern := range amountPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if amount, err := ParseAmount(m[1]); err == nil {
				return amount, true
			}
		}
	}
	return 0, false
}

// ParseAmount converts a numeral in Brazilian format to a float. When both
// "." and "," appear, "." is a thousands separator and "," the decimal point;
// a lone "," is the decimal point; a lone "." is kept as the decimal point.
func ParseAmount(raw string) (float64, error) {
	clean := amountStripPattern.ReplaceAllString(raw, "")

	if strings.Contains(clean, ",") && strings.Contains(clean, ".") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return strconv.ParseFloat(clean, 64)
}

// DetectType classifies a text unit as income or expense from indicator
// phrases. The expense check runs first and wins ties; with no indicator at
// all the unit defaults to expense.
func DetectType(text string) string {
	lower := strings.ToLower(text)

	for _, indicator := range negativeIndicators {
		if strings.Contains(lower, indicator) {
			return models.TypeExpense
		}
	}
	for _, indicator := range positiveIndicators {
		if strings.Contains(lower, indicator) {
			return models.TypeIncome
		}
	}
	return models.TypeExpense
}

// ExtractDescription pulls a merchant-like description out of a line, falling
// back to the line stripped of its date and amount substrings.
func ExtractDescription(text string) string {
	for _, pattern := range merchantPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			merchant := strings.TrimSpace(m[1])
			if len([]rune(merchant)) > 3 {
				return truncateRunes(merchant, descriptionParseLimit)
			}
		}
	}

	clean := text
	for _, pattern := range datePatterns {
		clean = pattern.ReplaceAllString(clean, "")
	}
	for _, pattern := range amountPatterns {
		clean = pattern.ReplaceAllString(clean, "")
	}
	clean = strings.Join(strings.Fields(clean), " ")
	clean = strings.Trim(clean, " +-")

	if clean == "" {
		return descriptionFallback
	}
	return truncateRunes(clean, descriptionParseLimit)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
