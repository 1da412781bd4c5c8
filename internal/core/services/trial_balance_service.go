package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// trialBalanceRange covers account code, account name, debit and credit.
const trialBalanceRange = "A:D"

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

type trialBalanceService struct {
	BaseService
	sheets portssvc.SheetReader
}

// NewTrialBalanceService creates a trial balance importer. sheets may be nil
// when no spreadsheet access is configured.
func NewTrialBalanceService(sheets portssvc.SheetReader, base BaseService) portssvc.TrialBalanceSvc {
	return &trialBalanceService{BaseService: base, sheets: sheets}
}

var _ portssvc.TrialBalanceSvc = (*trialBalanceService)(nil)

func (s *trialBalanceService) FetchTrialBalance(ctx context.Context, actor domain.Profile, engagementID string, sheetURL string) (*domain.TrialBalance, error) {
	engagement, err := s.AuthorizeEngagement(ctx, actor, engagementID)
	if err != nil {
		return nil, err
	}
	if sheetURL == "" && engagement.TrialBalanceURL != nil {
		sheetURL = *engagement.TrialBalanceURL
	}
	if sheetURL == "" {
		return nil, apperrors.NewValidationFailedError("engagement " + engagementID + " has no trial balance sheet")
	}
	spreadsheetID, err := SpreadsheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	if s.sheets == nil {
		return nil, apperrors.NewAppError(503, "trial balance import is not configured", nil)
	}

	values, err := s.sheets.ReadValues(ctx, spreadsheetID, trialBalanceRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to read trial balance sheet",
			slog.String("engagement_id", engagementID),
			slog.String("spreadsheet_id", spreadsheetID))
		return nil, apperrors.NewTransportError("failed to read trial balance sheet", err)
	}

	rows, err := ParseTrialBalanceRows(values)
	if err != nil {
		return nil, err
	}
	tb := &domain.TrialBalance{
		EngagementID: engagementID,
		SourceURL:    sheetURL,
		Rows:         rows,
		FetchedAt:    s.Now(),
	}
	tb.Recalculate()

	s.LogInfo(ctx, "Trial balance imported",
		slog.String("engagement_id", engagementID),
		slog.Int("rows", len(rows)),
		slog.Bool("balanced", tb.IsBalanced()))
	return tb, nil
}

// SpreadsheetID extracts the document id from a Google Sheets URL.
func SpreadsheetID(sheetURL string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", apperrors.NewValidationFailedError("not a Google Sheets URL: " + sheetURL)
	}
	return m[1], nil
}

// ParseTrialBalanceRows converts sheet values into rows. A first row whose
// amounts are not numeric is a header and skipped; blank rows are skipped.
func ParseTrialBalanceRows(values [][]any) ([]domain.TrialBalanceRow, error) {
	rows := make([]domain.TrialBalanceRow, 0, len(values))
	for i, raw := range values {
		cells := make([]string, 4)
		for j := 0; j < len(raw) && j < 4; j++ {
			cells[j] = strings.TrimSpace(fmt.Sprint(raw[j]))
		}
		if cells[0] == "" && cells[1] == "" && cells[2] == "" && cells[3] == "" {
			continue
		}

		debit, debitErr := parseAmount(cells[2])
		credit, creditErr := parseAmount(cells[3])
		if debitErr != nil || creditErr != nil {
			if i == 0 {
				continue
			}
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("row %d has a non-numeric amount", i+1))
		}
		rows = append(rows, domain.TrialBalanceRow{
			AccountCode: cells[0],
			AccountName: cells[1],
			Debit:       debit,
			Credit:      credit,
		})
	}
	return rows, nil
}

// parseAmount accepts thousands separators and accounting-style negatives.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
