package matching

import (
	"github.com/sirupsen/logrus"

	"github.com/nntexpressinc/blackhawks-backend/internal/models"
)

// Keys a group can be matched by, in lookup order.
const (
	MatchedByTripID = "trip_id"
	MatchedByLoadID = "load_id"
)

// LoadFinder is the slice of the load store the engine needs. Implementations
// must return every load carrying the key, ordered oldest first.
type LoadFinder interface {
	FindAllByReferenceID(key string) ([]models.Load, error)
}

// Result describes how a group was resolved to a load.
type Result struct {
	Load       *models.Load
	MatchedBy  string
	Ambiguous  bool
	Candidates int
}

// Engine resolves an aggregated settlement group to at most one load, trying
// the trip id first and the load id as fallback.
type Engine struct {
	loads LoadFinder
	log   *logrus.Logger
}

func NewEngine(loads LoadFinder, log *logrus.Logger) *Engine {
	return &Engine{loads: loads, log: log}
}

// Match returns nil when neither key resolves; an unmatched group is not an
// error. The returned error is reserved for store failures.
func (e *Engine) Match(tripID, loadID *string) (*Result, error) {
	if tripID != nil {
		res, err := e.lookup(*tripID, MatchedByTripID)
		if err != nil || res != nil {
			return res, err
		}
	}
	if loadID != nil {
		res, err := e.lookup(*loadID, MatchedByLoadID)
		if err != nil || res != nil {
			return res, err
		}
	}
	return nil, nil
}

func (e *Engine) lookup(key, matchedBy string) (*Result, error) {
	loads, err := e.loads.FindAllByReferenceID(key)
	if err != nil {
		return nil, err
	}

	switch len(loads) {
	case 0:
		return nil, nil
	case 1:
		return &Result{Load: &loads[0], MatchedBy: matchedBy, Candidates: 1}, nil
	default:
		// Duplicate reference keys exist in the load table. Pick the oldest so
		// repeated runs resolve the same way, and flag it for audit.
		e.log.WithFields(logrus.Fields{
			"reference_key": key,
			"matched_by":    matchedBy,
			"candidates":    len(loads),
		}).Warn("multiple loads share reference key, using first by creation")
		return &Result{Load: &loads[0], MatchedBy: matchedBy, Ambiguous: true, Candidates: len(loads)}, nil
	}
}
