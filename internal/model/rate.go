package model

import (
	"github.com/shopspring/decimal"
)

const (
	CurrencyUSD    = "USD"
	DisplayLayout  = "2006-01-02"
	ProviderLayout = "20060102"
)

func init() {
	// rates leave the service as JSON numbers, the way the provider sends them
	decimal.MarshalJSONWithoutQuotes = true
}

// ProviderRate is one element of the NBU daily snapshot array.
type ProviderRate struct {
	R030         int             `json:"r030"`
	Txt          string          `json:"txt"`
	Rate         decimal.Decimal `json:"rate"`
	CC           string          `json:"cc"`
	ExchangeDate string          `json:"exchangedate"`
}

// RateRecord is a single row handed to the row sink.
type RateRecord struct {
	Date         string          `json:"date"`
	CurrencyCode string          `json:"currency_code"`
	Rate         decimal.Decimal `json:"rate"`
}

func NewRateRecord(date, code string, rate decimal.Decimal) RateRecord {
	return RateRecord{Date: date, CurrencyCode: code, Rate: rate}
}

// Row returns the positional tuple written to tabular sinks.
func (r RateRecord) Row() []interface{} {
	return []interface{}{r.Date, r.CurrencyCode, r.Rate.InexactFloat64()}
}

// FindRate returns the first record whose code matches.
func FindRate(rates []ProviderRate, code string) (ProviderRate, bool) {
	for _, r := range rates {
		if r.CC == code {
			return r, true
		}
	}
	return ProviderRate{}, false
}

type UpdateResult struct {
	Records []RateRecord
	Errors  []string
	Period  string
}

func (u *UpdateResult) AddRecord(record RateRecord) {
	u.Records = append(u.Records, record)
}

func (u *UpdateResult) AddError(msg string) {
	u.Errors = append(u.Errors, msg)
}

type ProviderCheck struct {
	Date            string
	USDRate         *decimal.Decimal
	TotalCurrencies int
}
