package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/presentation/draft"
)

// DraftHandler serves the multi-step application form.
type DraftHandler struct {
	store  *draft.Store
	submit usecase.Executor[dto.SubmitApplicationRequest, dto.SubmitApplicationResponse]
}

func NewDraftHandler(store *draft.Store, submit usecase.Executor[dto.SubmitApplicationRequest, dto.SubmitApplicationResponse]) *DraftHandler {
	return &DraftHandler{store: store, submit: submit}
}

func (h *DraftHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/drafts", h.create)
	r.GET("/drafts/:id", h.get)
	r.PUT("/drafts/:id/loan", h.updateLoan)
	r.PUT("/drafts/:id/financials", h.setFinancials)
	r.POST("/drafts/:id/submit", h.submitDraft)
	r.DELETE("/drafts/:id", h.discard)
}

func (h *DraftHandler) create(c *gin.Context) {
	var loan draft.LoanParams
	if !bindJSON(c, &loan) {
		return
	}
	if err := dto.Validate(loan); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, h.store.Create(actorID(c), loan))
}

func (h *DraftHandler) get(c *gin.Context) {
	d, err := h.store.Get(c.Param("id"), actorID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) updateLoan(c *gin.Context) {
	var loan draft.LoanParams
	if !bindJSON(c, &loan) {
		return
	}
	if err := dto.Validate(loan); err != nil {
		_ = c.Error(err)
		return
	}
	d, err := h.store.UpdateLoan(c.Param("id"), actorID(c), loan)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) setFinancials(c *gin.Context) {
	var f draft.Financials
	if !bindJSON(c, &f) {
		return
	}
	if err := dto.Validate(f); err != nil {
		_ = c.Error(err)
		return
	}
	d, err := h.store.SetFinancials(c.Param("id"), actorID(c), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// submitDraft submits the draft. A rejected outcome consumes the draft like
// a successful one; an error puts it back so the customer can retry.
func (h *DraftHandler) submitDraft(c *gin.Context) {
	d, err := h.store.Take(c.Param("id"), actorID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp, err := h.submit.Execute(c.Request.Context(), d.SubmitRequest())
	if err != nil {
		h.store.Restore(d)
		_ = c.Error(err)
		return
	}
	status := http.StatusCreated
	if resp.Rejected {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

func (h *DraftHandler) discard(c *gin.Context) {
	if err := h.store.Discard(c.Param("id"), actorID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
