package utils

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

// Log lines routinely carry user-derived text (transaction descriptions,
// category names, emails). In production those must not leak personal or
// financial data into the log stream.
var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	cpfPattern    = regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`)
	cnpjPattern   = regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)
	amountPattern = regexp.MustCompile(`R\$\s*\d{1,3}(?:\.\d{3})*(?:,\d{2})?`)
	cardPattern   = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	uuidPattern   = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskString redacts emails, CPF/CNPJ, card numbers, currency amounts and
// full UUIDs from a string.
func MaskString(input string) string {
	result := emailPattern.ReplaceAllString(input, "***@***.***")
	result = cpfPattern.ReplaceAllString(result, "***.***.***-**")
	result = cnpjPattern.ReplaceAllString(result, "**.***.***/****-**")
	result = cardPattern.ReplaceAllString(result, "****-****-****-****")
	result = amountPattern.ReplaceAllString(result, "R$ ***")
	result = uuidPattern.ReplaceAllStringFunc(result, MaskID)
	return result
}

// MaskID shortens an identifier to its first 8 characters.
func MaskID(id string) string {
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// MaskingHook is a logrus hook that redacts sensitive data from the message
// and every string field of each entry. Install it in production; development
// logs stay readable.
type MaskingHook struct{}

func NewMaskingHook() *MaskingHook {
	return &MaskingHook{}
}

func (h *MaskingHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *MaskingHook) Fire(entry *logrus.Entry) error {
	entry.Message = MaskString(entry.Message)
	for key, value := range entry.Data {
		if s, ok := value.(string); ok {
			entry.Data[key] = MaskString(s)
		}
	}
	return nil
}
