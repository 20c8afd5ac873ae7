package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/rates"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

type RateHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetEffective(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type rateHandlerImpl struct {
	rateService rates.RateService
}

func NewRateHandler(rateService rates.RateService) RateHandler {
	return &rateHandlerImpl{rateService: rateService}
}

func (h *rateHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req rates.CreateRateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.rateService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Rate set created", result)
}

// GetEffective resolves the rate set in force on ?date=YYYY-MM-DD, defaulting
// to today when the parameter is absent.
func (h *rateHandlerImpl) GetEffective(w http.ResponseWriter, r *http.Request) {
	result, err := h.rateService.Get(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *rateHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.rateService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
