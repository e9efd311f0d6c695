package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"wine-tier-service/internal/adapters/primary/http/dto"
	"wine-tier-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const maxBatchUpload = 10 << 20

func (h *Handler) PredictBatch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	records, err := readRecords(file, header.Filename)
	if err != nil {
		log.WithError(err).WithField("file", header.Filename).Warn("read batch file failed")
		mapDomainError(c, err)
		return
	}

	rows, err := dto.ParseBatchRows(records)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items, err := h.predictionSvc.PredictBatch(requestContext(c), rows)
	if err != nil {
		log.WithError(err).Error("batch prediction failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchResponse(items, h.currency))
}

// readRecords reads the first sheet of an .xlsx workbook or a .csv file.
func readRecords(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrInvalidInput, err)
		}
		defer f.Close()

		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet: %v", domain.ErrInvalidInput, err)
		}
		return rows, nil

	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: parse csv: %v", domain.ErrInvalidInput, err)
		}
		return rows, nil

	default:
		return nil, domain.ErrUnsupportedFile
	}
}
