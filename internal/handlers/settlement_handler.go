package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	service "github.com/nntexpressinc/blackhawks-backend/internal/services/settlement"
)

// Upload limits, enforced before a batch record exists.
const maxUploadSize = 10 << 20 // 10 MiB

type SettlementHandler struct {
	service *service.Service
	log     *logrus.Logger
}

func NewSettlementHandler(s *service.Service, log *logrus.Logger) *SettlementHandler {
	return &SettlementHandler{service: s, log: log}
}

// Upload accepts a Relay settlement workbook, creates a pending batch and
// reconciles it in the background.
func (h *SettlementHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only Excel files (.xlsx, .xls) are accepted"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MiB limit"})
		return
	}

	// Buffer the content now: the request body is gone once we return 202.
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	batch, err := h.service.CreateBatch(header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go func() {
		if err := h.service.Process(batch.ID, batch.Filename, bytes.NewReader(data)); err != nil {
			h.log.WithField("batch_id", batch.ID).WithError(err).Error("background processing failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id": batch.ID.String(),
		"status":   batch.Status,
	})
}

func (h *SettlementHandler) GetBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}

	batch, err := h.service.GetBatch(batchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}

	c.JSON(http.StatusOK, batch)
}

func (h *SettlementHandler) ListBatches(c *gin.Context) {
	status := c.Query("status")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	batches, total, err := h.service.ListBatches(status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  batches,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *SettlementHandler) ListRecords(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}

	records, err := h.service.ListRecords(batchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (h *SettlementHandler) DeleteBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}

	switch err := h.service.DeleteBatch(batchID); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "batch deleted"})
	case errors.Is(err, service.ErrBatchInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateLoad is an admin convenience; loads normally come from dispatch.
func (h *SettlementHandler) CreateLoad(c *gin.Context) {
	var payload struct {
		ReferenceID string `json:"reference_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if strings.TrimSpace(payload.ReferenceID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference_id required"})
		return
	}

	load, err := h.service.CreateLoad(strings.TrimSpace(payload.ReferenceID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "load created", "load": load})
}
