package handlers

import (
	"net/http"

	"github.com/Fi44er/points_bot/internal/http/middleware"
	"github.com/Fi44er/points_bot/internal/service"
	"github.com/gin-gonic/gin"
)

type PublicConfig struct {
	PricePerCredit float64 `json:"pricePerCredit"`
	MinPurchase    int64   `json:"minPurchase"`
	MaxPurchase    *int64  `json:"maxPurchase"`
	BankName       string  `json:"bankName"`
	AccountNumber  string  `json:"accountNumber"`
	AccountName    string  `json:"accountName"`
}

type ValidatePromoRequest struct {
	Code string `json:"code" binding:"required"`
}

type CreateTransactionRequest struct {
	Credits   int64  `json:"credits" binding:"required,gte=100"`
	PromoCode string `json:"promoCode"`
	Receipt   string `json:"receipt" binding:"required"`
	Note      string `json:"note" binding:"max=500"`
}

// Config exposes pricing and the transfer account to the purchase page.
func (h *Handlers) Config(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, PublicConfig{
		PricePerCredit: settings.PricePerCredit,
		MinPurchase:    service.MinPurchaseCredits,
		MaxPurchase:    settings.MaxPurchase,
		BankName:       settings.BankName,
		AccountNumber:  settings.AccountNumber,
		AccountName:    settings.AccountName,
	})
}

func (h *Handlers) ValidatePromo(c *gin.Context) {
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "code is required")
		return
	}
	promo, err := h.svc.ValidatePromo(c.Request.Context(), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"valid": true, "code": promo.Code, "discount": promo.Discount})
}

func (h *Handlers) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "credits (min 100) and receipt are required")
		return
	}
	tx, err := h.svc.CreateTransaction(c.Request.Context(), service.CreateTransactionInput{
		UserID:    middleware.UserIDFrom(c),
		Credits:   req.Credits,
		PromoCode: req.PromoCode,
		Receipt:   req.Receipt,
		Note:      req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"success": true, "transactionId": tx.ID, "amount": tx.Amount})
}

func (h *Handlers) UserTransactions(c *gin.Context) {
	txs, err := h.svc.ListUserTransactions(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"transactions": txs})
}
