package settlement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Group is the aggregate of all rows sharing a trip id, or a load id for rows
// without one. Descriptive fields come from the group's first row; only the
// numeric fields accumulate.
type Group struct {
	TripID    *string
	LoadID    *string
	Route     string
	GrossPay  decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	Distance  decimal.Decimal
}

// FilterCompleted selects the completed-trip line items. Sheets without an
// Item Type column predate the itemized export and are taken whole.
func FilterCompleted(t *Table) []Row {
	if !t.HasItemType {
		return t.Rows
	}
	var out []Row
	for _, r := range t.Rows {
		if strings.TrimSpace(r.ItemType) == ItemTypeCompleted {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate groups rows by trimmed trip id, falling back to trimmed load id for
// rows without one. Trip-keyed groups come first, then load-keyed groups, each
// set in first-seen order, so the result is stable for a given input order.
// Rows carrying neither key cannot be attributed and are dropped with a warning.
func Aggregate(rows []Row, log *logrus.Entry) []Group {
	tripGroups := make(map[string]*Group)
	loadGroups := make(map[string]*Group)
	var tripOrder, loadOrder []string

	for _, r := range rows {
		tripID := strings.TrimSpace(r.TripID)
		loadID := strings.TrimSpace(r.LoadID)

		var g *Group
		switch {
		case tripID != "":
			g = tripGroups[tripID]
			if g == nil {
				g = newGroup(r)
				g.TripID = &tripID
				if loadID != "" {
					g.LoadID = &loadID
				}
				tripGroups[tripID] = g
				tripOrder = append(tripOrder, tripID)
			}
		case loadID != "":
			g = loadGroups[loadID]
			if g == nil {
				g = newGroup(r)
				g.LoadID = &loadID
				loadGroups[loadID] = g
				loadOrder = append(loadOrder, loadID)
			}
		default:
			log.WithFields(logrus.Fields{
				"route":     r.Route,
				"gross_pay": r.GrossPay,
			}).Warn("row has neither trip id nor load id, dropping")
			continue
		}

		g.GrossPay = g.GrossPay.Add(CleanAmount(r.GrossPay, groupLog(log, g)))
		g.Distance = g.Distance.Add(CleanDistance(r.Distance, groupLog(log, g)))
	}

	out := make([]Group, 0, len(tripOrder)+len(loadOrder))
	for _, key := range tripOrder {
		out = append(out, *tripGroups[key])
	}
	for _, key := range loadOrder {
		out = append(out, *loadGroups[key])
	}
	return out
}

// newGroup seeds a group from its first row. Later rows in the same group never
// override these descriptive fields.
func newGroup(r Row) *Group {
	return &Group{
		Route:     strings.TrimSpace(r.Route),
		GrossPay:  decimal.Zero,
		Distance:  decimal.Zero,
		StartDate: CleanDate(r.StartDate),
		EndDate:   CleanDate(r.EndDate),
	}
}

func groupLog(log *logrus.Entry, g *Group) *logrus.Entry {
	if g.TripID != nil {
		return log.WithField("trip_id", *g.TripID)
	}
	if g.LoadID != nil {
		return log.WithField("load_id", *g.LoadID)
	}
	return log
}
