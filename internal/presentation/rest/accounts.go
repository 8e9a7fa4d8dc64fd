package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// AccountHandler serves registration and login. Both routes are public and
// answer with a bearer token.
type AccountHandler struct {
	register usecase.Executor[dto.RegisterRequest, dto.AuthResponse]
	login    usecase.Executor[dto.LoginRequest, dto.AuthResponse]
}

func NewAccountHandler(
	register usecase.Executor[dto.RegisterRequest, dto.AuthResponse],
	login usecase.Executor[dto.LoginRequest, dto.AuthResponse],
) *AccountHandler {
	return &AccountHandler{register: register, login: login}
}

func (h *AccountHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/auth/register", h.handleRegister)
	r.POST("/auth/login", h.handleLogin)
}

func (h *AccountHandler) handleRegister(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.register.Execute(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AccountHandler) handleLogin(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.login.Execute(c.Request.Context(), req)
	if err != nil {
		// Bad credentials are an authentication failure, not a permission one.
		if apperr.IsAuthorization(err) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: ErrorDetail{Message: err.Error(), Hint: apperr.Hint(err)},
			})
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
