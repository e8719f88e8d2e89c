package models

// RateAPIResponse is the shape of the exchangerate-api "latest" endpoint.
type RateAPIResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// RateTableRow is one line of a static CSV rate table, used as an offline
// replacement for the HTTP rate source.
type RateTableRow struct {
	Date string  `csv:"date"` // "2006-01-02"
	Pair string  `csv:"pair"` // "USD_INR"
	Rate float64 `csv:"rate"`
}
