package settlement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func testEntry() (*logrus.Entry, *test.Hook) {
	log, hook := test.NewNullLogger()
	return logrus.NewEntry(log), hook
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantWarn bool
	}{
		{"currency with thousands separator", "$1,234.56", "1234.56", false},
		{"plain number", "500", "500", false},
		{"decimal number", "487.50", "487.5", false},
		{"currency with space", "$ 500.00", "500", false},
		{"empty", "", "0", false},
		{"whitespace only", "   ", "0", false},
		{"lone dollar sign", "$", "0", false},
		{"garbage", "abc", "0", true},
		{"negative passes through", "-50.25", "-50.25", false},
		{"negative currency", "-$75.00", "-75", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, hook := testEntry()
			got := CleanAmount(tt.raw, entry)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CleanAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
			if tt.wantWarn && len(hook.Entries) == 0 {
				t.Errorf("CleanAmount(%q): expected a warning to be logged", tt.raw)
			}
			if !tt.wantWarn && len(hook.Entries) != 0 {
				t.Errorf("CleanAmount(%q): unexpected log entries: %v", tt.raw, hook.Entries)
			}
		})
	}
}

func TestCleanAmountWarnIncludesRawValue(t *testing.T) {
	entry, hook := testEntry()
	CleanAmount("not-money", entry)

	if len(hook.Entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(hook.Entries))
	}
	e := hook.LastEntry()
	if e.Level != logrus.WarnLevel {
		t.Errorf("expected warn level, got %s", e.Level)
	}
	if e.Data["raw_value"] != "not-money" {
		t.Errorf("expected raw_value field, got %v", e.Data)
	}
}

func TestCleanDistance(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"120", "120"},
		{"120.5", "120.5"},
		{"", "0"},
		{"n/a", "0"},
		// distance gets no currency stripping
		{"$120", "0"},
	}

	for _, tt := range tests {
		entry, _ := testEntry()
		got := CleanDistance(tt.raw, entry)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("CleanDistance(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestCleanDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-15", "03/15/2024", "3/15/2024", "3/15/24"} {
		got := CleanDate(raw)
		if got == nil {
			t.Errorf("CleanDate(%q) = nil, want %s", raw, want)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("CleanDate(%q) = %s, want %s", raw, got, want)
		}
	}

	for _, raw := range []string{"", "yesterday", "2024-13-45"} {
		if got := CleanDate(raw); got != nil {
			t.Errorf("CleanDate(%q) = %s, want nil", raw, got)
		}
	}
}
