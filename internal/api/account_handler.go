package api

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the admin-only account management endpoints.
type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountResponse excludes the password hash.
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateAccountRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

// ListAccounts godoc
// @Summary List all accounts (admin)
// @Tags Accounts
// @Produce json
// @Success 200 {array} AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}

	response := make([]AccountResponse, len(accounts))
	for i := range accounts {
		response[i] = MapAccountToResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MapAccountToResponse(account))
}

// UpdateAccount godoc
// @Summary Partially update an account (admin)
// @Description isAdmin cannot be changed. Unchanged values are not written.
// @Tags Accounts
// @Accept json
// @Param id path string true "Account ID"
// @Param account body UpdateAccountRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} ErrorResponse "No recognized field or invalid value"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /accounts/{id} [patch]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	_, err := h.accountService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), service.AccountPatch{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.accountService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MapAccountToResponse converts a domain Account to an AccountResponse DTO.
func MapAccountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.Hex(),
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		IsAdmin:   account.IsAdmin,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
