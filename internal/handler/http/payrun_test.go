package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payrun"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayRunService struct {
	generateResp payrun.PayRunResponse
	generateErr  error
	registerResp payrun.RegisterResponse
	registerErr  error
	processErr   error
}

func (s *stubPayRunService) Generate(ctx context.Context, req payrun.GeneratePayRunRequest) (payrun.PayRunResponse, error) {
	return s.generateResp, s.generateErr
}

func (s *stubPayRunService) Approve(ctx context.Context, id string) error { return nil }

func (s *stubPayRunService) Process(ctx context.Context, id string) error { return s.processErr }

func (s *stubPayRunService) Cancel(ctx context.Context, id string) error { return nil }

func (s *stubPayRunService) GetByID(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	return s.generateResp, s.generateErr
}

func (s *stubPayRunService) GetByPeriod(ctx context.Context, month, year int) (payrun.PayRunResponse, error) {
	return s.generateResp, s.generateErr
}

func (s *stubPayRunService) List(ctx context.Context) ([]payrun.PayRunSummaryResponse, error) {
	return nil, nil
}

func (s *stubPayRunService) Register(ctx context.Context, id string) (payrun.RegisterResponse, error) {
	return s.registerResp, s.registerErr
}

func newPayRunTestRouter(svc payrun.PayRunService) *chi.Mux {
	h := NewPayRunHandler(svc)
	r := chi.NewRouter()
	r.Post("/payruns", h.Generate)
	r.Post("/payruns/{id}/process", h.Process)
	r.Get("/payruns/{id}/register", h.Register)
	return r
}

func TestPayRunHandlerGenerate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubPayRunService{
			generateResp: payrun.PayRunResponse{ID: "run-1", Status: "draft"},
		}
		r := newPayRunTestRouter(svc)

		body, _ := json.Marshal(payrun.GeneratePayRunRequest{PeriodMonth: 6, PeriodYear: 2025})
		req := httptest.NewRequest(http.MethodPost, "/payruns", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "run-1")
	})

	t.Run("duplicate period maps to conflict", func(t *testing.T) {
		svc := &stubPayRunService{generateErr: payrun.ErrDuplicatePayRun}
		r := newPayRunTestRouter(svc)

		body, _ := json.Marshal(payrun.GeneratePayRunRequest{PeriodMonth: 6, PeriodYear: 2025})
		req := httptest.NewRequest(http.MethodPost, "/payruns", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := newPayRunTestRouter(&stubPayRunService{})

		req := httptest.NewRequest(http.MethodPost, "/payruns", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPayRunHandlerProcess(t *testing.T) {
	t.Run("wrong state maps to conflict", func(t *testing.T) {
		svc := &stubPayRunService{processErr: payrun.ErrInvalidStatusTransition}
		r := newPayRunTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/payruns/run-1/process", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing run maps to not found", func(t *testing.T) {
		svc := &stubPayRunService{processErr: payrun.ErrPayRunNotFound}
		r := newPayRunTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/payruns/run-1/process", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPayRunHandlerRegister(t *testing.T) {
	reg := payrun.RegisterResponse{
		PayRunID:    "run-1",
		PeriodMonth: 6,
		PeriodYear:  2025,
		Rows: []payrun.RegisterRow{
			{
				EmployeeCode: "EMP-001",
				EmployeeName: "A Person",
				Gross:        decimal.RequireFromString("100000"),
				NetPay:       decimal.RequireFromString("95500"),
			},
		},
		Totals: payrun.RegisterRow{
			EmployeeName: "TOTAL",
			Gross:        decimal.RequireFromString("100000"),
			NetPay:       decimal.RequireFromString("95500"),
		},
	}

	t.Run("json by default", func(t *testing.T) {
		r := newPayRunTestRouter(&stubPayRunService{registerResp: reg})

		req := httptest.NewRequest(http.MethodGet, "/payruns/run-1/register", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("csv on request", func(t *testing.T) {
		r := newPayRunTestRouter(&stubPayRunService{registerResp: reg})

		req := httptest.NewRequest(http.MethodGet, "/payruns/run-1/register?format=csv", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll-register-2025-06.csv")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 3) // header, one employee, totals
		assert.Contains(t, lines[0], "employee_code")
		assert.Contains(t, lines[1], "EMP-001")
		assert.Contains(t, lines[1], "95500.00")
		assert.Contains(t, lines[2], "TOTAL")
	})
}
