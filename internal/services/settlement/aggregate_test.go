package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAggregateSumsPerTrip(t *testing.T) {
	rows := []Row{
		{TripID: "T1", LoadID: "L1", Route: "DEN -> SLC", GrossPay: "$100.00", Distance: "50"},
		{TripID: "T1", LoadID: "L1", Route: "ignored", GrossPay: "$250.50", Distance: "70"},
		{TripID: "T2", GrossPay: "$75.00", Distance: "10"},
	}

	entry, _ := testEntry()
	groups := Aggregate(rows, entry)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	g := groups[0]
	if g.TripID == nil || *g.TripID != "T1" {
		t.Fatalf("expected first group T1, got %+v", g)
	}
	if !g.GrossPay.Equal(decimal.RequireFromString("350.50")) {
		t.Errorf("T1 gross pay = %s, want 350.50", g.GrossPay)
	}
	if !g.Distance.Equal(decimal.NewFromInt(120)) {
		t.Errorf("T1 distance = %s, want 120", g.Distance)
	}
	if g.Route != "DEN -> SLC" {
		t.Errorf("expected first row's route to win, got %q", g.Route)
	}
	if g.LoadID == nil || *g.LoadID != "L1" {
		t.Errorf("expected first row's load id, got %+v", g.LoadID)
	}
}

func TestAggregateSumInvariantUnderPermutation(t *testing.T) {
	forward := []Row{
		{TripID: "T1", GrossPay: "$10.10", Distance: "1"},
		{TripID: "T1", GrossPay: "$20.20", Distance: "2"},
		{TripID: "T1", GrossPay: "$30.30", Distance: "3"},
	}
	reversed := []Row{forward[2], forward[1], forward[0]}

	entry, _ := testEntry()
	a := Aggregate(forward, entry)
	b := Aggregate(reversed, entry)

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected single groups, got %d and %d", len(a), len(b))
	}
	if !a[0].GrossPay.Equal(b[0].GrossPay) {
		t.Errorf("sums differ under permutation: %s vs %s", a[0].GrossPay, b[0].GrossPay)
	}
	if !a[0].GrossPay.Equal(decimal.RequireFromString("60.60")) {
		t.Errorf("sum = %s, want 60.60", a[0].GrossPay)
	}
}

func TestAggregateFallsBackToLoadID(t *testing.T) {
	rows := []Row{
		{TripID: "T1", GrossPay: "$100.00"},
		{TripID: "", LoadID: "L9", GrossPay: "$40.00"},
		{TripID: "  ", LoadID: "L9", GrossPay: "$60.00"},
	}

	entry, _ := testEntry()
	groups := Aggregate(rows, entry)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// trip-keyed groups come first
	if groups[0].TripID == nil || *groups[0].TripID != "T1" {
		t.Errorf("expected trip group first, got %+v", groups[0])
	}
	lg := groups[1]
	if lg.TripID != nil {
		t.Errorf("load-keyed group should have nil trip id, got %v", *lg.TripID)
	}
	if lg.LoadID == nil || *lg.LoadID != "L9" {
		t.Fatalf("expected load group L9, got %+v", lg)
	}
	if !lg.GrossPay.Equal(decimal.NewFromInt(100)) {
		t.Errorf("L9 gross pay = %s, want 100", lg.GrossPay)
	}
}

func TestAggregateDropsRowsWithoutAnyKey(t *testing.T) {
	rows := []Row{
		{TripID: "", LoadID: "", GrossPay: "$99.00", Route: "nowhere"},
		{TripID: "T1", GrossPay: "$1.00"},
	}

	entry, hook := testEntry()
	groups := Aggregate(rows, entry)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(hook.Entries) == 0 {
		t.Error("expected a warning for the unattributable row")
	}
}

func TestAggregateTrimsKeys(t *testing.T) {
	rows := []Row{
		{TripID: " T1 ", GrossPay: "$1.00"},
		{TripID: "T1", GrossPay: "$2.00"},
	}

	entry, _ := testEntry()
	groups := Aggregate(rows, entry)

	if len(groups) != 1 {
		t.Fatalf("expected trimmed keys to group together, got %d groups", len(groups))
	}
	if !groups[0].GrossPay.Equal(decimal.NewFromInt(3)) {
		t.Errorf("gross pay = %s, want 3", groups[0].GrossPay)
	}
}

func TestAggregateOrderIsStable(t *testing.T) {
	rows := []Row{
		{TripID: "B", GrossPay: "$1.00"},
		{LoadID: "Z", GrossPay: "$1.00"},
		{TripID: "A", GrossPay: "$1.00"},
		{LoadID: "Y", GrossPay: "$1.00"},
	}

	entry, _ := testEntry()
	groups := Aggregate(rows, entry)

	want := []string{"B", "A", "Z", "Y"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, g := range groups {
		key := ""
		if g.TripID != nil {
			key = *g.TripID
		} else if g.LoadID != nil {
			key = *g.LoadID
		}
		if key != want[i] {
			t.Errorf("group %d key = %q, want %q", i, key, want[i])
		}
	}
}

func TestFilterCompleted(t *testing.T) {
	table := &Table{
		HasItemType: true,
		Rows: []Row{
			{TripID: "T1", ItemType: "LOAD - COMPLETED"},
			{TripID: "T2", ItemType: "ADJUSTMENT"},
			{TripID: "T3", ItemType: " LOAD - COMPLETED "},
			{TripID: "T4", ItemType: "BONUS"},
		},
	}

	got := FilterCompleted(table)
	if len(got) != 2 {
		t.Fatalf("expected 2 completed rows, got %d", len(got))
	}
	if got[0].TripID != "T1" || got[1].TripID != "T3" {
		t.Errorf("unexpected rows: %+v", got)
	}
}

func TestFilterCompletedWithoutItemTypeColumn(t *testing.T) {
	table := &Table{
		HasItemType: false,
		Rows:        []Row{{TripID: "T1"}, {TripID: "T2"}},
	}

	if got := FilterCompleted(table); len(got) != 2 {
		t.Errorf("sheets without Item Type should pass through whole, got %d rows", len(got))
	}
}
