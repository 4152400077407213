package optimizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Tickers follow the Yahoo Finance convention: the bare symbol for US
// listings, and an exchange suffix everywhere else (e.g. "ERIC-B.ST" for
// Nasdaq Stockholm). The suffix disambiguates otherwise identical symbols
// across markets and determines the trading currency when the user did not
// state one.

// Market describes a listing market recognized by the pipeline.
type Market struct {
	Suffix   string // ticker suffix, "" for US listings
	Name     string
	Currency string // ISO 4217 trading currency
}

// Markets lists every recognized market. The same table is published as the
// "suffixes" documentation topic and in the vision extraction instruction.
var Markets = []Market{
	{"", "NYSE / Nasdaq", "USD"},
	{".ST", "Nasdaq Stockholm", "SEK"},
	{".OL", "Oslo Børs", "NOK"},
	{".CO", "Nasdaq Copenhagen", "DKK"},
	{".HE", "Nasdaq Helsinki", "EUR"},
	{".DE", "XETRA", "EUR"},
	{".L", "London Stock Exchange", "GBP"},
	{".PA", "Euronext Paris", "EUR"},
	{".AS", "Euronext Amsterdam", "EUR"},
	{".TO", "Toronto Stock Exchange", "CAD"},
	{".AX", "Australian Securities Exchange", "AUD"},
	{".HK", "Hong Kong Stock Exchange", "HKD"},
	{".T", "Tokyo Stock Exchange", "JPY"},
}

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]*(\.[A-Z]{1,2})?$`)

// MarketOf returns the market a ticker is listed on, based on its suffix.
// The second return value is false when the ticker carries a suffix that is
// not in the table.
func MarketOf(ticker string) (Market, bool) {
	dot := strings.LastIndex(ticker, ".")
	suffix := ""
	if dot >= 0 {
		suffix = ticker[dot:]
	}
	for _, m := range Markets {
		if m.Suffix == suffix {
			return m, true
		}
	}
	return Market{}, false
}

// ValidateTicker checks the ticker's overall shape and that its exchange
// suffix (if any) is recognized. Unknown suffixes are an error rather than
// being silently stripped: a wrong suffix would resolve to the wrong
// instrument.
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("empty ticker")
	}
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("ticker %q is not a valid exchange-suffixed symbol", ticker)
	}
	if _, ok := MarketOf(ticker); !ok {
		return fmt.Errorf("ticker %q has an unrecognized exchange suffix", ticker)
	}
	return nil
}

// InferCurrency returns the trading currency implied by the ticker's
// exchange suffix, or "" when the suffix is unknown.
func InferCurrency(ticker string) string {
	m, ok := MarketOf(ticker)
	if !ok {
		return ""
	}
	return m.Currency
}

// ValidateCurrency checks that 'code' is a plausible ISO 4217 code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("currency %q must be a 3-letter ISO code", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("currency %q must be uppercase letters only", code)
		}
	}
	return nil
}
