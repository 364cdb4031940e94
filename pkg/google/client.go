package google

import (
	"context"
	"fmt"
	"log"

	"github.com/harrisonrobin/tablero/pkg/auth"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewClient creates an authenticated Google Sheets client reading readRange
// of the given spreadsheet.
func NewClient(ctx context.Context, spreadsheetID, readRange string) (*SheetClient, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("no spreadsheet configured")
	}
	client, err := auth.GetClient(ctx, auth.SheetsScopes)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %w", err)
	}

	// Fail early on a wrong id rather than on the first read.
	sheet, err := srv.Spreadsheets.Get(spreadsheetID).Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to open spreadsheet '%s': %w", spreadsheetID, err)
	}
	if sheet.Properties != nil {
		log.Printf("Reading tasks from spreadsheet: %s", sheet.Properties.Title)
	}

	return NewSheetClient(srv, spreadsheetID, readRange), nil
}
