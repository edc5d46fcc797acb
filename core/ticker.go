package core

import "strings"

// NormalizeTicker trims whitespace and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NormalizeTickers normalizes every ticker, dropping blanks. Order is preserved.
func NormalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if n := NormalizeTicker(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
