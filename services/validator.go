package services

import (
	"time"

	"github.com/lucasmd12/fiorence1/models"
)

// Persisted descriptions are capped harder than the parser's working limit.
const descriptionStoreLimit = 200

// Validator filters candidate batches down to well-formed records. It is a
// total filter: malformed candidates are dropped silently, never surfaced as
// errors.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate keeps candidates with a canonical date, a positive amount and a
// non-empty description, truncating over-long descriptions.
func (v *Validator) Validate(candidates []models.CandidateTransaction) []models.CandidateTransaction {
	valid := make([]models.CandidateTransaction, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.Date == "" || candidate.Description == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", candidate.Date); err != nil {
			continue
		}
		if candidate.Amount <= 0 {
			continue
		}

		candidate.Description = truncateRunes(candidate.Description, descriptionStoreLimit)
		valid = append(valid, candidate)
	}

	return valid
}
