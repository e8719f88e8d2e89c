package parsers

import (
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
)

// StatementParser turns one wealth manager's monthly statement into raw
// holding rows. Each implementation is specialized to a single manager's
// document layout; the heuristics are necessarily brittle, so the contract
// is best-effort: extract every holding row present, skip rows that fail
// validation, and only fail the whole document when it cannot be opened.
type StatementParser interface {
	// Manager is the fixed display name, e.g. "Kotak".
	Manager() string

	// FilePattern is the case-insensitive filename substring that locates
	// this manager's statement inside a month directory. The credential
	// table may override it.
	FilePattern() string

	// Extract opens the document at path (decrypting with password when
	// non-empty) and returns its raw holding rows. A document-level failure
	// returns a *models.DocumentAccessError.
	Extract(path string, password string) ([]models.RawHolding, error)
}
