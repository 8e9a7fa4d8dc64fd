package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// CalculatorHandler serves the public loan calculator.
type CalculatorHandler struct {
	plan usecase.Executor[dto.RepaymentPlanRequest, dto.RepaymentPlanResponse]
}

func NewCalculatorHandler(plan usecase.Executor[dto.RepaymentPlanRequest, dto.RepaymentPlanResponse]) *CalculatorHandler {
	return &CalculatorHandler{plan: plan}
}

func (h *CalculatorHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/repayment-plan", h.repaymentPlan)
}

type repaymentPlanQuery struct {
	Amount    string  `form:"amount" binding:"required"`
	Rate      float64 `form:"rate"`
	Years     int     `form:"years" binding:"required"`
	StartDate string  `form:"start"`
}

func (h *CalculatorHandler) repaymentPlan(c *gin.Context) {
	var q repaymentPlanQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(&bindError{err: err})
		return
	}
	amount, err := decimal.NewFromString(q.Amount)
	if err != nil {
		_ = c.Error(apperr.Validation("invalid amount %q", q.Amount))
		return
	}
	var start time.Time
	if q.StartDate != "" {
		if start, err = time.Parse(time.DateOnly, q.StartDate); err != nil {
			_ = c.Error(apperr.Validation("invalid start date %q", q.StartDate))
			return
		}
	}

	resp, err := h.plan.Execute(c.Request.Context(), dto.RepaymentPlanRequest{
		Amount:       amount,
		InterestRate: q.Rate,
		TermYears:    q.Years,
		StartDate:    start,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
