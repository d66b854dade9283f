package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lutefd/nbu-rates/internal/model"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	valueInputRaw       = "RAW"
	insertRows          = "INSERT_ROWS"
)

type serviceOpener func(ctx context.Context) (*sheets.Service, *drive.Service, error)

// SheetsRowSink appends rows to the first worksheet of a Google spreadsheet.
// Credentials are read on every call, so a missing or broken key file only
// fails the request that needs it.
type SheetsRowSink struct {
	credentialsFile string
	documentName    string
	spreadsheetID   string
	open            serviceOpener
}

func NewSheetsRowSink(credentialsFile, documentName, spreadsheetID string) *SheetsRowSink {
	s := &SheetsRowSink{
		credentialsFile: credentialsFile,
		documentName:    documentName,
		spreadsheetID:   spreadsheetID,
	}
	s.open = s.openWithCredentials
	return s
}

func (s *SheetsRowSink) AppendRows(ctx context.Context, records []model.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	sheetsSvc, driveSvc, err := s.open(ctx)
	if err != nil {
		return err
	}

	spreadsheetID, err := s.resolveSpreadsheetID(ctx, driveSvc)
	if err != nil {
		return err
	}

	title, err := firstSheetTitle(ctx, sheetsSvc, spreadsheetID)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(records))
	for _, record := range records {
		values = append(values, record.Row())
	}

	_, err = sheetsSvc.Spreadsheets.Values.Append(spreadsheetID, quoteSheetTitle(title), &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows to %q: %w", title, err)
	}
	return nil
}

func (s *SheetsRowSink) Close() error {
	return nil
}

func (s *SheetsRowSink) openWithCredentials(ctx context.Context) (*sheets.Service, *drive.Service, error) {
	if _, err := os.Stat(s.credentialsFile); err != nil {
		return nil, nil, fmt.Errorf("credentials file unavailable: %w", err)
	}

	opts := []option.ClientOption{
		option.WithCredentialsFile(s.credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return sheetsSvc, driveSvc, nil
}

func (s *SheetsRowSink) resolveSpreadsheetID(ctx context.Context, driveSvc *drive.Service) (string, error) {
	if s.spreadsheetID != "" {
		return s.spreadsheetID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeDriveQuery(s.documentName), spreadsheetMimeType)

	list, err := driveSvc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up spreadsheet %q: %w", s.documentName, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", s.documentName)
	}
	return list.Files[0].Id, nil
}

func firstSheetTitle(ctx context.Context, sheetsSvc *sheets.Service, spreadsheetID string) (string, error) {
	spreadsheet, err := sheetsSvc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}
	return spreadsheet.Sheets[0].Properties.Title, nil
}

func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func escapeDriveQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
