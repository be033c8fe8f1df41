package importer

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// SheetClient fetches a Google Sheets document as CSV through an
// authorized OAuth2 client.
type SheetClient struct {
	importer *Importer
	source   oauth2.TokenSource
	baseURL  string
}

// NewSheetClient creates a sheet client around an OAuth2 token source.
func NewSheetClient(im *Importer, source oauth2.TokenSource) *SheetClient {
	return &SheetClient{
		importer: im,
		source:   source,
		baseURL:  "https://docs.google.com/spreadsheets/d",
	}
}

// ImportSheet downloads the sheet's CSV export and parses it.
func (c *SheetClient) ImportSheet(ctx context.Context, spreadsheetID string) (*Result, error) {
	client := oauth2.NewClient(ctx, c.source)
	url := fmt.Sprintf("%s/%s/export?format=csv", c.baseURL, spreadsheetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet %s: %w", spreadsheetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet export returned %s", resp.Status)
	}
	return c.importer.ImportCSV(resp.Body)
}
