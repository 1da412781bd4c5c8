package services

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// TrialBalanceSvc imports an engagement's trial balance
type TrialBalanceSvc interface {
	// FetchTrialBalance reads the trial balance from sheetURL, or from the
	// engagement's stored trial balance reference when sheetURL is empty.
	FetchTrialBalance(ctx context.Context, actor domain.Profile, engagementID string, sheetURL string) (*domain.TrialBalance, error)
}

// SheetReader reads a rectangular range of cell values from a spreadsheet.
type SheetReader interface {
	ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}
