package services

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
)

// Credential holds the per-manager statement password and an optional
// filename pattern override. Statements are issued to the account holder
// with PAN- or phone-derived passwords, so the table lives outside the
// repository next to the input data.
type Credential struct {
	FilePattern string `json:"file_pattern,omitempty"`
	Password    string `json:"password,omitempty"`
}

// CredentialTable maps manager display names to their credentials.
type CredentialTable map[string]Credential

// LoadCredentials reads the credentials file. A missing file is not fatal;
// unprotected statements still extract, protected ones fail per manager.
func LoadCredentials(path string) (CredentialTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.L.Warn("Credentials file not found, password-protected statements will fail", "path", path)
			return CredentialTable{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file %q: %w", path, err)
	}

	var table CredentialTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %q: %w", path, err)
	}
	return table, nil
}
