package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/handler/http/response"
)

type SalaryHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	CalculateBatch(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService payroll.SalaryService
}

func NewSalaryHandler(salaryService payroll.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func (h *salaryHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.Calculate(r.Context(), req.EmployeeID, req.StartDate, req.EndDate, req.Rate.ToRateConfig())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewSalaryCalculationResponse(result))
}

func (h *salaryHandlerImpl) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entries, err := h.salaryService.CalculateMany(r.Context(), req.EmployeeIDs, req.StartDate, req.EndDate, req.Rate.ToRateConfig())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	succeeded := 0
	for _, e := range entries {
		if e.Err == nil {
			succeeded++
		}
	}

	message := fmt.Sprintf("%d of %d salary calculations succeeded", succeeded, len(entries))
	response.SuccessWithMessage(w, message, payroll.NewBatchEntryResponses(entries))
}

