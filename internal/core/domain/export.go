package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExportFormat is the file type of a register export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat accepts "csv" or "xlsx" in any case; empty means csv.
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, true
	case ExportXLSX:
		return ExportXLSX, true
	}
	return "", false
}

// ContentType is the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportRequest selects a register and optionally a subset of its rows.
type ExportRequest struct {
	Config    ConnectionConfig
	Kind      RegisterKind
	CompanyID string
	Format    ExportFormat
	IDs       []string // empty exports every row
}

// ExportFile is a rendered register export.
type ExportFile struct {
	FileName        string
	ContentType     string
	Content         []byte
	RecordsExported int
}

// ExportFileName builds "<Kind>_Register_<YYYY-MM-DD>.<ext>".
func ExportFileName(kind RegisterKind, format ExportFormat, on time.Time) string {
	return fmt.Sprintf("%s_Register_%s.%s", kind, on.Format(DateLayout), format)
}
