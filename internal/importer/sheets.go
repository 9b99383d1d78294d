package importer

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/greypaperclip/cffadb/internal/config"
)

// SheetSource reads worksheets from a Google spreadsheet shared with a
// service account. The sheet is addressed by id when configured, otherwise
// located by name through the Drive API.
type SheetSource struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetSource authorizes against Google with the configured service
// account key file and resolves the spreadsheet. Failures here are exactly
// the "cannot open the source" class, so they wrap ErrSourceUnavailable.
func NewSheetSource(ctx context.Context, cfg config.SheetConfig) (*SheetSource, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("%w: no credentials file configured", ErrSourceUnavailable)
	}
	creds := option.WithCredentialsFile(cfg.CredentialsFile)

	svc, err := sheets.NewService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: creating sheets client: %v", ErrSourceUnavailable, err)
	}

	id := cfg.SpreadsheetID
	if id == "" {
		id, err = findSpreadsheetByName(ctx, cfg.SpreadsheetName, creds)
		if err != nil {
			return nil, err
		}
	}
	return &SheetSource{svc: svc, spreadsheetID: id}, nil
}

// Rows reads one worksheet and zips each data row against the header row.
// Short rows are padded with empty strings, matching how the sheet API trims
// trailing blanks.
func (s *SheetSource) Rows(ctx context.Context, worksheet string) ([]map[string]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("'%s'", worksheet)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", worksheet, err)
	}
	if len(resp.Values) < 2 {
		return nil, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = fmt.Sprintf("%v", cell)
	}

	rows := make([]map[string]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(raw) {
				row[header] = fmt.Sprintf("%v", raw[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// findSpreadsheetByName locates a spreadsheet id via the Drive API, the way
// the sheet was historically addressed (by name, not id).
func findSpreadsheetByName(ctx context.Context, name string, creds option.ClientOption) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: neither sheet id nor sheet name configured", ErrSourceUnavailable)
	}
	driveSvc, err := drive.NewService(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("%w: creating drive client: %v", ErrSourceUnavailable, err)
	}
	list, err := driveSvc.Files.List().
		Q(fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet'", name)).
		PageSize(2).Fields("files(id, name)").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: searching for sheet %q: %v", ErrSourceUnavailable, name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: sheet %q not shared with the service account", ErrSourceUnavailable, name)
	}
	return list.Files[0].Id, nil
}
