// Package sheets reads trial balances out of Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Reader implements services.SheetReader on the Sheets v4 API.
type Reader struct {
	service *sheetsapi.Service
	logger  *slog.Logger
}

var _ portssvc.SheetReader = (*Reader)(nil)

// NewReader creates a Reader. Exactly one of apiKey or credentialsFile is
// normally set; extra client options are appended after them.
func NewReader(ctx context.Context, apiKey, credentialsFile string, logger *slog.Logger, opts ...option.ClientOption) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var clientOpts []option.ClientOption
	switch {
	case credentialsFile != "":
		clientOpts = append(clientOpts,
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	case apiKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Reader{service: service, logger: logger.With("component", "sheets_reader")}, nil
}

// ReadValues returns the formatted cell values of readRange.
func (r *Reader) ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to read sheet", slog.String("spreadsheet_id", spreadsheetID), slog.String("range", readRange), slog.Any("error", err))
		return nil, mapError(spreadsheetID, err)
	}
	return resp.Values, nil
}

func mapError(spreadsheetID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return apperrors.NewNotFoundError("spreadsheet " + spreadsheetID + " not found")
		case http.StatusForbidden, http.StatusUnauthorized:
			return apperrors.NewForbiddenError("spreadsheet " + spreadsheetID + " is not shared with the importer")
		case http.StatusBadRequest:
			return apperrors.NewValidationFailedError("spreadsheet range rejected: " + gerr.Message)
		}
	}
	return apperrors.NewTransportError("failed to read spreadsheet "+spreadsheetID, err)
}
