package http

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayRunHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByPeriod(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type payRunHandlerImpl struct {
	payRunService payrun.PayRunService
}

func NewPayRunHandler(payRunService payrun.PayRunService) PayRunHandler {
	return &payRunHandlerImpl{payRunService: payRunService}
}

func (h *payRunHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payrun.GeneratePayRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payRunService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay run generated", result)
}

func (h *payRunHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payRunService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payRunHandlerImpl) GetByPeriod(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Invalid month", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", nil)
		return
	}

	result, err := h.payRunService.GetByPeriod(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payRunHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.payRunService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payRunHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payRunService.Approve(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run approved", nil)
}

func (h *payRunHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payRunService.Process(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run processed", nil)
}

func (h *payRunHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payRunService.Cancel(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run cancelled", nil)
}

func (h *payRunHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payRunService.Register(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeRegisterCSV(w, result)
		return
	}

	response.Success(w, result)
}

var registerHeader = []string{
	"employee_code", "employee_name", "department", "designation",
	"basic", "hra", "conveyance", "telephone", "medical", "special_allowance", "other_allowances", "gross",
	"total_working_days", "payable_days", "loss_of_pay_days", "loss_of_pay_amount",
	"pf_employee", "esi_employee", "professional_tax", "tds", "advance_deduction", "loan_deduction",
	"net_pay",
}

func writeRegisterCSV(w http.ResponseWriter, reg payrun.RegisterResponse) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payroll-register-%d-%02d.csv"`, reg.PeriodYear, reg.PeriodMonth))

	cw := csv.NewWriter(w)
	_ = cw.Write(registerHeader)
	for _, row := range reg.Rows {
		_ = cw.Write(registerCSVRow(row))
	}
	_ = cw.Write(registerCSVRow(reg.Totals))
	cw.Flush()
}

func registerCSVRow(row payrun.RegisterRow) []string {
	return []string{
		row.EmployeeCode, row.EmployeeName, row.Department, row.Designation,
		row.Basic.StringFixed(2), row.HRA.StringFixed(2), row.Conveyance.StringFixed(2),
		row.Telephone.StringFixed(2), row.Medical.StringFixed(2), row.SpecialAllowance.StringFixed(2),
		row.OtherAllowances.StringFixed(2), row.Gross.StringFixed(2),
		strconv.Itoa(row.TotalWorkingDays), strconv.Itoa(row.PayableDays), strconv.Itoa(row.LossOfPayDays),
		row.LossOfPayAmount.StringFixed(2),
		row.PFEmployee.StringFixed(2), row.ESIEmployee.StringFixed(2), row.ProfessionalTax.StringFixed(2),
		row.TDS.StringFixed(2), row.AdvanceDeduction.StringFixed(2), row.LoanDeduction.StringFixed(2),
		row.NetPay.StringFixed(2),
	}
}
