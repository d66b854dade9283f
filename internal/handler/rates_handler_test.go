package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lutefd/nbu-rates/internal/handler"
	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) UpdateRates(ctx context.Context, from, to string) (*model.UpdateResult, error) {
	args := m.Called(ctx, from, to)
	result, _ := args.Get(0).(*model.UpdateResult)
	return result, args.Error(1)
}

func (m *MockRateService) CheckProvider(ctx context.Context) (*model.ProviderCheck, error) {
	args := m.Called(ctx)
	check, _ := args.Get(0).(*model.ProviderCheck)
	return check, args.Error(1)
}

func records(dates ...string) []model.RateRecord {
	out := make([]model.RateRecord, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.NewRateRecord(d, "USD", decimal.RequireFromString("37.9824")))
	}
	return out
}

func TestRateHandler_Index(t *testing.T) {
	h := handler.NewRateHandler(new(MockRateService))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.Index(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"service":"NBU Currency Rates API"`)
	assert.Contains(t, rr.Body.String(), `"/update_rates":"GET - Оновити курси валют"`)
	assert.Contains(t, rr.Body.String(), `"parameters":"?update_from=YYYY-MM-DD&update_to=YYYY-MM-DD"`)
}

func TestRateHandler_UpdateRates(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		from           string
		to             string
		result         *model.UpdateResult
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "All days found",
			query: "?update_from=2024-01-01&update_to=2024-01-03",
			from:  "2024-01-01",
			to:    "2024-01-03",
			result: &model.UpdateResult{
				Records: records("2024-01-01", "2024-01-02", "2024-01-03"),
				Period:  "2024-01-01 - 2024-01-03",
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"success","rows_added":3,"period":"2024-01-01 - 2024-01-03","errors":null}`,
		},
		{
			name:  "Partial failure",
			query: "?update_from=2024-01-01&update_to=2024-01-03",
			from:  "2024-01-01",
			to:    "2024-01-03",
			result: &model.UpdateResult{
				Records: records("2024-01-01", "2024-01-03"),
				Errors:  []string{"timeout for 2024-01-02"},
				Period:  "2024-01-01 - 2024-01-03",
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"success","rows_added":2,"period":"2024-01-01 - 2024-01-03","errors":["timeout for 2024-01-02"]}`,
		},
		{
			name:  "Defaults passed through empty",
			query: "",
			result: &model.UpdateResult{
				Records: records("2024-03-05"),
				Period:  "2024-03-05 - 2024-03-05",
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"success","rows_added":1,"period":"2024-03-05 - 2024-03-05","errors":null}`,
		},
		{
			name:           "Invalid date format",
			query:          "?update_from=2024/01/01",
			from:           "2024/01/01",
			err:            fmt.Errorf("%w: %q", model.ErrInvalidDate, "2024/01/01"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid date format, use YYYY-MM-DD"}`,
		},
		{
			name:           "Reversed period",
			query:          "?update_from=2024-01-02&update_to=2024-01-01",
			from:           "2024-01-02",
			to:             "2024-01-01",
			err:            fmt.Errorf("%w: 2024-01-02 > 2024-01-01", model.ErrInvalidPeriod),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"'update_from' cannot be later than 'update_to'"}`,
		},
		{
			name:  "No data found",
			query: "?update_from=2024-01-06&update_to=2024-01-07",
			from:  "2024-01-06",
			to:    "2024-01-07",
			result: &model.UpdateResult{
				Errors: []string{"USD not found for 2024-01-06", "request failed for 2024-01-07: connection refused"},
				Period: "2024-01-06 - 2024-01-07",
			},
			err:            model.ErrNoDataFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"error","message":"no data found","errors":["USD not found for 2024-01-06","request failed for 2024-01-07: connection refused"]}`,
		},
		{
			name:           "Sink failure",
			query:          "?update_from=2024-01-01&update_to=2024-01-01",
			from:           "2024-01-01",
			to:             "2024-01-01",
			err:            fmt.Errorf("%w: %v", model.ErrSink, errors.New("quota exceeded")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"error","message":"failed to write rows: quota exceeded"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockRateService)
			mockService.On("UpdateRates", mock.Anything, tt.from, tt.to).Return(tt.result, tt.err).Once()
			h := handler.NewRateHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, "/update_rates"+tt.query, nil)
			rr := httptest.NewRecorder()
			h.UpdateRates(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

func TestRateHandler_UpdateRates_SinkFailureIsNotSuccess(t *testing.T) {
	mockService := new(MockRateService)
	mockService.On("UpdateRates", mock.Anything, "", "").Return(nil, fmt.Errorf("%w: %v", model.ErrSink, errors.New("credentials file unavailable")))
	h := handler.NewRateHandler(mockService)

	rr := httptest.NewRecorder()
	h.UpdateRates(rr, httptest.NewRequest(http.MethodGet, "/update_rates", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.NotContains(t, body, "rows_added")
}

func TestRateHandler_TestNBU(t *testing.T) {
	rate := decimal.RequireFromString("41.2519")

	tests := []struct {
		name           string
		check          *model.ProviderCheck
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "USD present",
			check:          &model.ProviderCheck{Date: "20240305", USDRate: &rate, TotalCurrencies: 61},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"success","date":"20240305","usd_rate":41.2519,"total_currencies":61}`,
		},
		{
			name:           "USD absent",
			check:          &model.ProviderCheck{Date: "20240305", TotalCurrencies: 3},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"success","date":"20240305","usd_rate":null,"total_currencies":3}`,
		},
		{
			name:           "Provider failure",
			err:            model.NewUpstreamError(model.ErrUpstreamRequest, errors.New("API request failed with status code: 502")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"error","message":"upstream request failed: API request failed with status code: 502"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockRateService)
			mockService.On("CheckProvider", mock.Anything).Return(tt.check, tt.err).Once()
			h := handler.NewRateHandler(mockService)

			rr := httptest.NewRecorder()
			h.TestNBU(rr, httptest.NewRequest(http.MethodGet, "/test_nbu", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
