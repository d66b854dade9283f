package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type fakeGoogleAPI struct {
	*httptest.Server
	mu          sync.Mutex
	files       []map[string]string
	sheetTitle  string
	appendCode  int
	driveQuery  string
	appendPath  string
	appendQuery map[string]string
	appended    [][]interface{}
	appendCalls int
}

func newFakeGoogleAPI(t *testing.T) *fakeGoogleAPI {
	f := &fakeGoogleAPI{
		files:      []map[string]string{{"id": "sheet-123", "name": "currency_rates"}},
		sheetTitle: "Курси",
		appendCode: http.StatusOK,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/drive/v3/files":
			f.driveQuery = r.URL.Query().Get("q")
			json.NewEncoder(w).Encode(map[string]interface{}{"files": f.files})
		case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/sheet-123":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"spreadsheetId": "sheet-123",
				"sheets": []interface{}{
					map[string]interface{}{"properties": map[string]interface{}{"sheetId": 0, "title": f.sheetTitle, "index": 0}},
					map[string]interface{}{"properties": map[string]interface{}{"sheetId": 1, "title": "Other", "index": 1}},
				},
			})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			f.appendCalls++
			f.appendPath = r.URL.Path
			f.appendQuery = map[string]string{
				"valueInputOption": r.URL.Query().Get("valueInputOption"),
				"insertDataOption": r.URL.Query().Get("insertDataOption"),
			}
			if f.appendCode != http.StatusOK {
				w.WriteHeader(f.appendCode)
				w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
				return
			}
			var body sheets.ValueRange
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode append body: %v", err)
			}
			f.appended = body.Values
			json.NewEncoder(w).Encode(map[string]interface{}{
				"spreadsheetId": "sheet-123",
				"updates":       map[string]interface{}{"updatedRows": len(body.Values)},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGoogleAPI) opener() serviceOpener {
	return func(ctx context.Context) (*sheets.Service, *drive.Service, error) {
		sheetsSvc, err := sheets.NewService(ctx, option.WithHTTPClient(f.Client()), option.WithEndpoint(f.URL+"/"))
		if err != nil {
			return nil, nil, err
		}
		driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(f.Client()), option.WithEndpoint(f.URL+"/drive/v3/"))
		if err != nil {
			return nil, nil, err
		}
		return sheetsSvc, driveSvc, nil
	}
}

func testRecords() []model.RateRecord {
	return []model.RateRecord{
		model.NewRateRecord("2024-01-01", model.CurrencyUSD, decimal.RequireFromString("37.9824")),
		model.NewRateRecord("2024-01-02", model.CurrencyUSD, decimal.RequireFromString("38.0000")),
	}
}

func TestSheetsRowSink_AppendRows(t *testing.T) {
	api := newFakeGoogleAPI(t)
	sink := NewSheetsRowSink("unused.json", "currency_rates", "")
	sink.open = api.opener()

	err := sink.AppendRows(context.Background(), testRecords())
	require.NoError(t, err)

	assert.Equal(t, 1, api.appendCalls)
	assert.Contains(t, api.driveQuery, "name = 'currency_rates'")
	assert.Contains(t, api.driveQuery, spreadsheetMimeType)
	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/'Курси':append", api.appendPath)
	assert.Equal(t, "RAW", api.appendQuery["valueInputOption"])
	assert.Equal(t, "INSERT_ROWS", api.appendQuery["insertDataOption"])
	assert.Equal(t, [][]interface{}{
		{"2024-01-01", "USD", 37.9824},
		{"2024-01-02", "USD", float64(38)},
	}, api.appended)
}

func TestSheetsRowSink_AppendRows_SpreadsheetID(t *testing.T) {
	api := newFakeGoogleAPI(t)
	api.files = nil
	sink := NewSheetsRowSink("unused.json", "", "sheet-123")
	sink.open = api.opener()

	err := sink.AppendRows(context.Background(), testRecords())
	require.NoError(t, err)

	assert.Empty(t, api.driveQuery)
	assert.Equal(t, 1, api.appendCalls)
}

func TestSheetsRowSink_AppendRows_Errors(t *testing.T) {
	t.Run("Spreadsheet not found", func(t *testing.T) {
		api := newFakeGoogleAPI(t)
		api.files = []map[string]string{}
		sink := NewSheetsRowSink("unused.json", "missing", "")
		sink.open = api.opener()

		err := sink.AppendRows(context.Background(), testRecords())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `spreadsheet "missing" not found`)
		assert.Equal(t, 0, api.appendCalls)
	})

	t.Run("Append rejected", func(t *testing.T) {
		api := newFakeGoogleAPI(t)
		api.appendCode = http.StatusForbidden
		sink := NewSheetsRowSink("unused.json", "currency_rates", "")
		sink.open = api.opener()

		err := sink.AppendRows(context.Background(), testRecords())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to append rows")
	})

	t.Run("Missing credentials file", func(t *testing.T) {
		sink := NewSheetsRowSink(filepath.Join(t.TempDir(), "absent.json"), "currency_rates", "")

		err := sink.AppendRows(context.Background(), testRecords())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "credentials file unavailable")
	})

	t.Run("Malformed credentials file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		sink := NewSheetsRowSink(path, "currency_rates", "")

		err := sink.AppendRows(context.Background(), testRecords())
		assert.Error(t, err)
	})
}

func TestSheetsRowSink_AppendRows_Empty(t *testing.T) {
	sink := NewSheetsRowSink("absent.json", "currency_rates", "")
	sink.open = func(ctx context.Context) (*sheets.Service, *drive.Service, error) {
		t.Fatal("services must not be opened for an empty batch")
		return nil, nil, nil
	}

	assert.NoError(t, sink.AppendRows(context.Background(), nil))
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheetTitle("Sheet1"))
	assert.Equal(t, "'Bob''s rates'", quoteSheetTitle("Bob's rates"))
}

func TestEscapeDriveQuery(t *testing.T) {
	assert.Equal(t, `rates \'2024\'`, escapeDriveQuery("rates '2024'"))
	assert.Equal(t, `a\\b`, escapeDriveQuery(`a\b`))
}
