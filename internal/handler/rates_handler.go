package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/logger"
	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/Lutefd/nbu-rates/internal/service"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidDate   = "invalid date format, use YYYY-MM-DD"
	msgInvalidPeriod = "'update_from' cannot be later than 'update_to'"
	msgNoDataFound   = "no data found"
)

type RateHandler struct {
	rateService service.RateServiceInterface
}

func NewRateHandler(rateService service.RateServiceInterface) *RateHandler {
	return &RateHandler{
		rateService: rateService,
	}
}

type serviceDescriptor struct {
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

type updateResponse struct {
	Status    string   `json:"status"`
	RowsAdded int      `json:"rows_added"`
	Period    string   `json:"period"`
	Errors    []string `json:"errors"`
}

type providerCheckResponse struct {
	Status          string           `json:"status"`
	Date            string           `json:"date"`
	USDRate         *decimal.Decimal `json:"usd_rate"`
	TotalCurrencies int              `json:"total_currencies"`
}

func (h *RateHandler) Index(w http.ResponseWriter, r *http.Request) {
	commons.RespondWithJSON(w, http.StatusOK, serviceDescriptor{
		Service: commons.ServiceName,
		Endpoints: map[string]string{
			"/update_rates": "GET - Оновити курси валют",
			"parameters":    "?update_from=YYYY-MM-DD&update_to=YYYY-MM-DD",
			"/test_nbu":     "GET - Тест API НБУ",
		},
	})
}

func (h *RateHandler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("update_from")
	to := r.URL.Query().Get("update_to")

	// The walk is unbounded in length; once rows reach the sink the client
	// must get the result, so the server write deadline does not apply here.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logger.Errorf("failed to clear write deadline: %v", err)
	}

	result, err := h.rateService.UpdateRates(r.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidDate):
			commons.RespondWithError(w, http.StatusBadRequest, msgInvalidDate)
		case errors.Is(err, model.ErrInvalidPeriod):
			commons.RespondWithError(w, http.StatusBadRequest, msgInvalidPeriod)
		case errors.Is(err, model.ErrNoDataFound):
			var errs []string
			if result != nil {
				errs = result.Errors
			}
			commons.RespondWithStatusError(w, http.StatusNotFound, msgNoDataFound, errs)
		default:
			commons.RespondWithStatusError(w, http.StatusInternalServerError, err.Error(), nil)
		}
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, updateResponse{
		Status:    commons.StatusSuccess,
		RowsAdded: len(result.Records),
		Period:    result.Period,
		Errors:    result.Errors,
	})
}

func (h *RateHandler) TestNBU(w http.ResponseWriter, r *http.Request) {
	check, err := h.rateService.CheckProvider(r.Context())
	if err != nil {
		commons.RespondWithStatusError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, providerCheckResponse{
		Status:          commons.StatusSuccess,
		Date:            check.Date,
		USDRate:         check.USDRate,
		TotalCurrencies: check.TotalCurrencies,
	})
}
