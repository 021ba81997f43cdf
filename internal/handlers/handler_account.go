package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
	"github.com/vuthy55/roomledger/internal/middleware"
)

// accountHandler handles HTTP requests for token accounts and their ledgers.
type accountHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	rates         portssvc.RatePolicyProvider
}

func newAccountHandler(ls portssvc.LedgerSvcFacade, rates portssvc.RatePolicyProvider) *accountHandler {
	return &accountHandler{
		ledgerService: ls,
		rates:         rates,
	}
}

// getMyAccount godoc
// @Summary Get own token account
// @Description Returns the caller's balance, priced with the current token unit price.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (h *accountHandler) getMyAccount(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccountByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	policy, err := h.rates.GetRates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account, policy.TokenUnitPrice))
}

// listMyLedger godoc
// @Summary List own ledger entries
// @Description Returns the caller's transaction log, newest first.
// @Tags accounts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me/ledger [get]
func (h *accountHandler) listMyLedger(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccountByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), account.AccountID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}

// topUp godoc
// @Summary Purchase tokens
// @Description Credits purchased tokens to the caller's account. Payment capture is external.
// @Tags accounts
// @Accept json
// @Produce json
// @Param topup body dto.TopUpRequest true "Purchase details"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me/topup [post]
func (h *accountHandler) topUp(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.TopUp(c.Request.Context(), userID, req.Tokens, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Top-up applied", slog.Int64("tokens", req.Tokens), slog.String("reference", req.Reference))

	c.JSON(http.StatusOK, dto.LedgerEntryResponse{
		EntryID:      entry.EntryID,
		Amount:       entry.Amount,
		Kind:         string(entry.Kind),
		Description:  entry.Description,
		BalanceAfter: entry.BalanceAfter,
		CreatedAt:    entry.CreatedAt,
	})
}
