package parsers

import (
	"fmt"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers/clientassociates"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers/iifl"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers/indmoney"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers/kotak"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers/motilaloswal"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers/yesbank"
)

// GetParser resolves a single manager key (lowercase, no spaces) to its parser.
func GetParser(manager string) (StatementParser, error) {
	switch manager {
	case "indmoney":
		return indmoney.NewParser(), nil
	case "clientassociates":
		return clientassociates.NewParser(), nil
	case "yesbank":
		return yesbank.NewParser(), nil
	case "kotak":
		return kotak.NewParser(), nil
	case "motilaloswal":
		return motilaloswal.NewParser(), nil
	case "iifl":
		return iifl.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for manager: %s", manager)
	}
}

// All returns every registered parser in the order statements are processed.
func All() []StatementParser {
	return []StatementParser{
		indmoney.NewParser(),
		clientassociates.NewParser(),
		yesbank.NewParser(),
		kotak.NewParser(),
		motilaloswal.NewParser(),
		iifl.NewParser(),
	}
}
