package settlement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CleanAmount turns a raw Gross Pay cell into an exact decimal. Currency symbol,
// thousands separators and whitespace are stripped first. Anything that still
// fails to parse contributes zero — partial data must not block the batch — and
// is logged for the audit trail.
func CleanAmount(raw string, log *logrus.Entry) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero
	}
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		log.WithField("raw_value", raw).Warn("unparseable gross pay, treating as zero")
		return decimal.Zero
	}
	return amount
}

// CleanDistance coerces a distance cell to numeric-or-zero. No currency
// stripping here; a distance with a dollar sign is malformed.
func CleanDistance(raw string, log *logrus.Entry) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero
	}

	dist, err := decimal.NewFromString(cleaned)
	if err != nil {
		log.WithField("raw_value", raw).Warn("unparseable distance, treating as zero")
		return decimal.Zero
	}
	return dist
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	time.RFC3339,
}

// CleanDate parses the date layouts Relay exports have been seen to use.
// Unparseable dates coerce to nil rather than failing the row.
func CleanDate(raw string) *time.Time {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return &t
		}
	}
	return nil
}
