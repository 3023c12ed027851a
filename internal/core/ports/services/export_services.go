package services

import (
	"context"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
)

// ExportSvc renders registers to downloadable files.
type ExportSvc interface {
	ExportRegister(ctx context.Context, req domain.ExportRequest) (*domain.ExportFile, error)
}
