package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/xuri/excelize/v2"
)

const exportPageSize = 100

var exportHeader = []string{"Date", "Invoice No", "Party Name", "Amount", "Status"}

// exportService renders a whole register, fetched page by page, as CSV or XLSX.
type exportService struct {
	BaseService
	registers portssvc.AcquisitionFetcherSvc
	now       func() time.Time
}

// NewExportService creates an export service reading registers through the acquisition service.
func NewExportService(registers portssvc.AcquisitionFetcherSvc) portssvc.ExportSvc {
	return &exportService{registers: registers, now: time.Now}
}

var _ portssvc.ExportSvc = (*exportService)(nil)

func (s *exportService) ExportRegister(ctx context.Context, req domain.ExportRequest) (*domain.ExportFile, error) {
	if req.Format == "" {
		req.Format = domain.ExportCSV
	}
	if _, ok := domain.ParseExportFormat(string(req.Format)); !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, req.Format)
	}

	rows, err := s.collect(ctx, req)
	if err != nil {
		return nil, err
	}

	var content []byte
	switch req.Format {
	case domain.ExportXLSX:
		content, err = renderXLSX(req.Kind, rows)
	default:
		content, err = renderCSV(rows)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to render export", slog.String("format", string(req.Format)))
		return nil, fmt.Errorf("failed to render %s export: %w", req.Format, err)
	}

	s.LogInfo(ctx, "Register exported",
		slog.String("kind", string(req.Kind)),
		slog.String("company_id", req.CompanyID),
		slog.Int("records", len(rows)))

	return &domain.ExportFile{
		FileName:        domain.ExportFileName(req.Kind, req.Format, s.now()),
		ContentType:     req.Format.ContentType(),
		Content:         content,
		RecordsExported: len(rows),
	}, nil
}

// collect walks every page of the register and keeps the requested ids, if any.
func (s *exportService) collect(ctx context.Context, req domain.ExportRequest) ([]domain.Transaction, error) {
	wanted := make(map[string]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		wanted[id] = struct{}{}
	}

	var rows []domain.Transaction
	for page := 1; ; page++ {
		result, err := s.registers.FetchRegister(ctx, req.Config, req.Kind, req.CompanyID, page, exportPageSize)
		if err != nil {
			return nil, err
		}
		for _, row := range result.Rows {
			if len(wanted) > 0 {
				if _, ok := wanted[row.ID]; !ok {
					continue
				}
			}
			rows = append(rows, row)
		}
		if len(result.Rows) == 0 || !result.HasNext() {
			break
		}
	}
	return rows, nil
}

func exportRecord(row domain.Transaction) []string {
	return []string{
		row.Date.Format(domain.DateLayout),
		utils.SanitizeForFormulaInjection(utils.SanitizeText(row.InvoiceNo)),
		utils.SanitizeForFormulaInjection(utils.SanitizeText(row.PartyName)),
		utils.FormatWithPrecision(row.Amount, 2),
		string(row.Status),
	}
}

func renderCSV(rows []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(exportRecord(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(kind domain.RegisterKind, rows []domain.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%s Register", kind)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		record := exportRecord(row)
		values := []any{record[0], record[1], record[2], row.Amount.InexactFloat64(), record[4]}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
