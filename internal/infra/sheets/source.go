package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"edinet_notifier/internal/domain/watchlist"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var ErrSpreadsheetNotFound = fmt.Errorf("spreadsheet not found")
var ErrWorksheetNotFound = fmt.Errorf("worksheet not found")

// WatchlistSource reads issuer codes from column A of one worksheet.
// Credentials come from Application Default Credentials unless opts override them.
type WatchlistSource struct {
	spreadsheetID string
	worksheet     string
	prefix        string
	opts          []option.ClientOption
	logger        logrus.FieldLogger
}

func NewWatchlistSource(spreadsheetID, worksheet, prefix string, logger logrus.FieldLogger, opts ...option.ClientOption) *WatchlistSource {
	return &WatchlistSource{
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		prefix:        prefix,
		opts:          opts,
		logger:        logger,
	}
}

// Codes returns the cleaned column A values. The service is built per call
// so credentials are only resolved when a run reaches this step.
func (s *WatchlistSource) Codes(ctx context.Context) ([]string, error) {
	opts := append([]option.ClientOption{option.WithScopes(gsheets.SpreadsheetsReadonlyScope)}, s.opts...)
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating sheets service: %w", err)
	}

	readRange := fmt.Sprintf("'%s'!A:A", s.worksheet)
	resp, err := srv.Spreadsheets.Values.Get(s.spreadsheetID, readRange).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.classify(err)
	}

	var raw []string
	for _, column := range resp.Values {
		for _, cell := range column {
			raw = append(raw, fmt.Sprint(cell))
		}
	}
	codes := watchlist.Clean(raw, s.prefix)
	s.logger.WithFields(logrus.Fields{
		"worksheet": s.worksheet,
		"cells":     len(raw),
		"codes":     len(codes),
	}).Info("Loaded watchlist codes from sheet")
	return codes, nil
}

func (s *WatchlistSource) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: ID %s", ErrSpreadsheetNotFound, s.spreadsheetID)
		case http.StatusBadRequest:
			// Sheets answers 400 "Unable to parse range" for an unknown tab.
			return fmt.Errorf("%w: %q: %s", ErrWorksheetNotFound, s.worksheet, apiErr.Message)
		}
	}
	return fmt.Errorf("error reading worksheet %q: %w", s.worksheet, err)
}
