package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dealscope/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var amountRegex = regexp.MustCompile(`[0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?`)

// freeMarkers are price strings that mean the item costs nothing.
var freeMarkers = map[string]bool{
	"free": true,
	"무료":   true,
}

// PriceParser converts a human-readable price string into whole units of the
// target currency (KRW). Conversion rates come from an immutable snapshot
// taken at construction; the parser itself never reads shared state.
type PriceParser struct {
	rates domain.ExchangeRates
}

// NewPriceParser creates a parser bound to the given rate snapshot.
func NewPriceParser(rates domain.ExchangeRates) *PriceParser {
	return &PriceParser{rates: rates}
}

// Parse returns the amount in whole KRW. It returns 0 for empty input, for a
// recognized "free" marker, and for text with no recognized currency symbol.
// Callers must treat 0 as "unparseable", not "free".
func (p *PriceParser) Parse(priceText string) int {
	text := strings.TrimSpace(priceText)
	if text == "" {
		return 0
	}
	if freeMarkers[strings.ToLower(text)] {
		return 0
	}

	// Target currency first: only the amount next to the symbol counts, so
	// struck-through prices or foreign amounts elsewhere in the text are
	// ignored. Grouping separators are stripped.
	if idx := strings.IndexAny(text, "₩￦"); idx >= 0 {
		_, symbolLen := utf8.DecodeRuneInString(text[idx:])
		raw := amountRegex.FindString(text[idx+symbolLen:])
		if raw == "" {
			// Amount-before-symbol layout: the run closest to the symbol.
			if matches := amountRegex.FindAllString(text[:idx], -1); len(matches) > 0 {
				raw = matches[len(matches)-1]
			}
		}
		if raw == "" {
			return 0
		}
		amount, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return 0
		}
		return amount
	}

	// Foreign symbols in fixed priority order, each converted by its rate.
	for _, currency := range []struct {
		symbol string
		rate   float64
	}{
		{"$", p.rates.USD},
		{"€", p.rates.EUR},
		{"¥", p.rates.JPY},
	} {
		if !strings.Contains(text, currency.symbol) {
			continue
		}
		raw := amountRegex.FindString(text)
		if raw == "" {
			return 0
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return 0
		}
		return int(math.Round(amount * currency.rate))
	}

	return 0
}
