package settlement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nntexpressinc/blackhawks-backend/internal/locker"
	"github.com/nntexpressinc/blackhawks-backend/internal/models"
	"github.com/nntexpressinc/blackhawks-backend/internal/services/matching"
)

var (
	// ErrBatchAlreadyProcessed means the batch was claimed before, is running
	// now, or already finished. Reprocessing would double-pay matched loads.
	ErrBatchAlreadyProcessed = errors.New("batch has already been processed or is in progress")

	// ErrBatchInProgress blocks administrative deletion mid-run.
	ErrBatchInProgress = errors.New("batch is currently processing")
)

// BatchStore persists payment batches.
type BatchStore interface {
	Create(batch *models.PaymentBatch) error
	GetByID(id uuid.UUID) (*models.PaymentBatch, error)
	List(status string, limit, offset int) ([]models.PaymentBatch, int64, error)
	Delete(id uuid.UUID) error
	ClaimForProcessing(id uuid.UUID) (bool, error)
	MarkCompleted(id uuid.UUID, total decimal.Decimal, loadsUpdated int) error
	MarkFailed(id uuid.UUID, message string) error
}

// RecordStore persists settlement records.
type RecordStore interface {
	Create(record *models.SettlementRecord) error
	SetMatched(recordID, loadID uuid.UUID) error
	ListByBatch(batchID uuid.UUID) ([]models.SettlementRecord, error)
}

// LoadStore is the engine's view of the load subsystem.
type LoadStore interface {
	matching.LoadFinder
	Create(load *models.Load) error
	IncrementAmazonAmount(id uuid.UUID, delta decimal.Decimal) (*models.Load, error)
}

// AuditStore persists match audit entries.
type AuditStore interface {
	Create(entry *models.MatchAuditLog) error
}

// Service drives the reconciliation pipeline end to end: parse, validate,
// filter, aggregate, match, attribute.
type Service struct {
	batches BatchStore
	records RecordStore
	loads   LoadStore
	audits  AuditStore
	matcher *matching.Engine
	locks   *locker.Locker
	log     *logrus.Logger
}

func NewService(
	batches BatchStore,
	records RecordStore,
	loads LoadStore,
	audits AuditStore,
	log *logrus.Logger,
) *Service {
	return &Service{
		batches: batches,
		records: records,
		loads:   loads,
		audits:  audits,
		matcher: matching.NewEngine(loads, log),
		locks:   locker.New(),
		log:     log,
	}
}

// CreateBatch records an accepted upload as pending.
func (s *Service) CreateBatch(filename string) (*models.PaymentBatch, error) {
	now := time.Now()
	batch := &models.PaymentBatch{
		ID:          uuid.New(),
		Filename:    filename,
		Status:      models.BatchStatusPending,
		UploadedAt:  now,
		TotalAmount: decimal.Zero,
		CreatedAt:   now,
	}
	if err := s.batches.Create(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Process runs the whole pipeline for one batch. It is the only mutator of the
// batch record, and refuses to run twice for the same batch: the in-process
// lock serializes concurrent callers, the pending->processing claim rejects
// anything already claimed or finished.
func (s *Service) Process(batchID uuid.UUID, filename string, file io.Reader) error {
	if !s.locks.TryAcquire(batchID) {
		return ErrBatchAlreadyProcessed
	}
	defer s.locks.Release(batchID)

	claimed, err := s.batches.ClaimForProcessing(batchID)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrBatchAlreadyProcessed
	}

	log := s.log.WithField("batch_id", batchID)

	raw, err := ParseTable(file, filename)
	if err != nil {
		return s.fail(batchID, log, fmt.Errorf("parsing %s: %w", filename, err))
	}
	table, err := BuildRows(raw)
	if err != nil {
		return s.fail(batchID, log, err)
	}

	groups := Aggregate(FilterCompleted(table), log)

	totalAmount := decimal.Zero
	loadsUpdated := 0

	for _, g := range groups {
		record := &models.SettlementRecord{
			ID:             uuid.New(),
			PaymentBatchID: batchID,
			TripID:         g.TripID,
			LoadID:         g.LoadID,
			Route:          g.Route,
			GrossPay:       g.GrossPay,
			StartDate:      g.StartDate,
			EndDate:        g.EndDate,
			Distance:       g.Distance,
			CreatedAt:      time.Now(),
		}
		if err := s.records.Create(record); err != nil {
			return s.fail(batchID, log, fmt.Errorf("persisting settlement record: %w", err))
		}

		res, err := s.matcher.Match(g.TripID, g.LoadID)
		if err != nil {
			return s.fail(batchID, log, fmt.Errorf("matching load: %w", err))
		}
		if res == nil {
			groupLog(log, &g).Info("no load found for settlement group")
			continue
		}

		if _, err := s.loads.IncrementAmazonAmount(res.Load.ID, g.GrossPay); err != nil {
			return s.fail(batchID, log, fmt.Errorf("updating load amount: %w", err))
		}
		if err := s.records.SetMatched(record.ID, res.Load.ID); err != nil {
			return s.fail(batchID, log, fmt.Errorf("marking record matched: %w", err))
		}
		if err := s.writeAudit(record, res); err != nil {
			return s.fail(batchID, log, fmt.Errorf("writing match audit: %w", err))
		}

		loadsUpdated++
		totalAmount = totalAmount.Add(g.GrossPay)
	}

	if err := s.batches.MarkCompleted(batchID, totalAmount, loadsUpdated); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"groups":        len(groups),
		"loads_updated": loadsUpdated,
		"total_amount":  totalAmount,
	}).Info("settlement batch completed")
	return nil
}

// fail transitions the batch to failed, keeping whatever records were already
// persisted visible for audit.
func (s *Service) fail(batchID uuid.UUID, log *logrus.Entry, err error) error {
	log.WithError(err).Error("settlement batch failed")
	if markErr := s.batches.MarkFailed(batchID, err.Error()); markErr != nil {
		log.WithError(markErr).Error("could not mark batch failed")
	}
	return err
}

func (s *Service) writeAudit(record *models.SettlementRecord, res *matching.Result) error {
	details, _ := json.Marshal(map[string]interface{}{
		"reference_id":    res.Load.ReferenceID,
		"matched_by":      res.MatchedBy,
		"ambiguous":       res.Ambiguous,
		"candidate_count": res.Candidates,
		"gross_pay":       record.GrossPay.String(),
	})
	return s.audits.Create(&models.MatchAuditLog{
		ID:                 uuid.New(),
		SettlementRecordID: record.ID,
		LoadID:             res.Load.ID,
		MatchedBy:          res.MatchedBy,
		Ambiguous:          res.Ambiguous,
		Candidates:         res.Candidates,
		Details:            details,
		CreatedAt:          time.Now(),
	})
}

func (s *Service) GetBatch(batchID uuid.UUID) (*models.PaymentBatch, error) {
	return s.batches.GetByID(batchID)
}

func (s *Service) ListBatches(status string, limit, offset int) ([]models.PaymentBatch, int64, error) {
	return s.batches.List(status, limit, offset)
}

// DeleteBatch removes a batch and its records. Deleting mid-run is refused;
// everything else, including failed batches, may go.
func (s *Service) DeleteBatch(batchID uuid.UUID) error {
	batch, err := s.batches.GetByID(batchID)
	if err != nil {
		return err
	}
	if batch.Status == models.BatchStatusProcessing {
		return ErrBatchInProgress
	}
	return s.batches.Delete(batchID)
}

func (s *Service) ListRecords(batchID uuid.UUID) ([]models.SettlementRecord, error) {
	return s.records.ListByBatch(batchID)
}

// CreateLoad registers a shipment record. Used by the admin endpoint; loads
// normally arrive from the dispatch subsystem.
func (s *Service) CreateLoad(referenceID string) (*models.Load, error) {
	load := &models.Load{
		ID:           uuid.New(),
		ReferenceID:  referenceID,
		AmazonAmount: decimal.Zero,
		CreatedAt:    time.Now(),
	}
	if err := s.loads.Create(load); err != nil {
		return nil, err
	}
	return load, nil
}
