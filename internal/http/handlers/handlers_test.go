package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fi44er/points_bot/internal/auth"
	"github.com/Fi44er/points_bot/internal/http/middleware"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/service"
	"github.com/Fi44er/points_bot/utils"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

// stubService implements only what each test needs; anything else panics
// through the nil embedded interface.
type stubService struct {
	Service

	users       map[int64]*models.User
	created     *service.CreateTransactionInput
	rewardInput *service.RewardInput
	approveErr  error
	approved    []string
}

func (s *stubService) LoginByChatID(_ context.Context, chatID int64) (*models.User, error) {
	if u, ok := s.users[chatID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("chat %d: %w", chatID, service.ErrUserNotFound)
}

func (s *stubService) CreateTransaction(_ context.Context, in service.CreateTransactionInput) (*models.Transaction, error) {
	s.created = &in
	return &models.Transaction{ID: "tx-1", Amount: 90}, nil
}

func (s *stubService) CreateReward(_ context.Context, in service.RewardInput) (*models.Reward, error) {
	s.rewardInput = &in
	return &models.Reward{ID: "rw-1", Name: in.Name, Type: in.Type}, nil
}

func (s *stubService) ApproveTransaction(_ context.Context, id string) error {
	if s.approveErr != nil {
		return s.approveErr
	}
	s.approved = append(s.approved, id)
	return nil
}

type testEnv struct {
	router *gin.Engine
	svc    *stubService
	tokens *auth.TokenService
}

func newTestEnv() *testEnv {
	svc := &stubService{users: map[int64]*models.User{}}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	h := New(svc, tokens)
	log := utils.NopLogger()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))
	r.POST("/api/login", h.Login)
	user := r.Group("/api", middleware.Auth(tokens))
	user.POST("/transaction/create", h.CreateTransaction)
	admin := r.Group("/api/admin", middleware.Auth(tokens), middleware.RequireAdmin())
	admin.POST("/rewards", h.CreateReward)
	admin.POST("/transactions/:id/approve", h.ApproveTransaction)

	return &testEnv{router: r, svc: svc, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, role models.Role) string {
	t.Helper()
	tok, err := e.tokens.Issue(&models.User{ID: "u-1", Role: role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (e *testEnv) post(path, token string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("tx: %w", service.ErrAlreadyProcessed), http.StatusConflict, ErrCodeAlreadyProcessed},
		{service.ErrTransactionNotFound, http.StatusNotFound, ErrCodeNotFound},
		{service.ErrInsufficientPoints, http.StatusBadRequest, ErrCodeInsufficientPoints},
		{service.ErrRewardInactive, http.StatusBadRequest, ErrCodeRewardInactive},
		{service.ErrPromoExists, http.StatusConflict, ErrCodeConflict},
		{fmt.Errorf("referral chat 7: %w", service.ErrReferralUnavailable), http.StatusConflict, ErrCodeReferralGone},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{&service.ValidationError{Field: "credits", Reason: "too small"}, http.StatusBadRequest, ErrCodeValidation},
		{errors.New("db is down"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if got := decodeError(t, w); got.Code != tt.code {
				t.Fatalf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, errors.New("pq: password authentication failed"))

	if got := decodeError(t, w); got.Message != "internal server error" {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	chatID := int64(42)
	env.svc.users[chatID] = &models.User{ID: "u-42", ChatID: &chatID, Role: models.RoleUser}

	w := env.post("/api/login", "", gin.H{"chatId": chatID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	var resp AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	claims, err := env.tokens.Validate(resp.Token)
	if err != nil || claims.UserID != "u-42" {
		t.Fatalf("token claims = %+v, err = %v", claims, err)
	}

	w = env.post("/api/login", "", gin.H{"chatId": 7})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown chat: status = %d", w.Code)
	}
	w = env.post("/api/login", "", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing chat: status = %d", w.Code)
	}
}

func TestCreateTransaction(t *testing.T) {
	env := newTestEnv()
	tok := env.token(t, models.RoleUser)

	w := env.post("/api/transaction/create", tok, gin.H{"credits": 50, "receipt": "abc"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("below minimum: status = %d", w.Code)
	}
	if env.svc.created != nil {
		t.Fatal("service called for invalid request")
	}

	w = env.post("/api/transaction/create", tok, gin.H{"credits": 100, "receipt": "abc", "promoCode": "SAVE10"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	if got := env.svc.created; got == nil || got.UserID != "u-1" || got.PromoCode != "SAVE10" {
		t.Fatalf("input = %+v", got)
	}

	w = env.post("/api/transaction/create", "", gin.H{"credits": 100, "receipt": "abc"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d", w.Code)
	}
}

func TestCreateRewardValidatesType(t *testing.T) {
	env := newTestEnv()
	tok := env.token(t, models.RoleAdmin)

	w := env.post("/api/admin/rewards", tok, gin.H{"name": "Gift", "type": "gift_card", "pointsCost": 10})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: status = %d", w.Code)
	}

	w = env.post("/api/admin/rewards", tok, gin.H{"name": "50 credits", "type": "credits", "pointsCost": 10, "value": 50})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	if env.svc.rewardInput.Type != models.RewardCredits || env.svc.rewardInput.Value != 50 {
		t.Fatalf("input = %+v", env.svc.rewardInput)
	}

	w = env.post("/api/admin/rewards", env.token(t, models.RoleUser), gin.H{"name": "x", "type": "credits", "pointsCost": 1})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status = %d", w.Code)
	}
}

func TestApproveTransaction(t *testing.T) {
	env := newTestEnv()
	tok := env.token(t, models.RoleAdmin)

	w := env.post("/api/admin/transactions/tx-9/approve", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	if len(env.svc.approved) != 1 || env.svc.approved[0] != "tx-9" {
		t.Fatalf("approved = %v", env.svc.approved)
	}

	env.svc.approveErr = fmt.Errorf("transaction tx-9 is approved: %w", service.ErrAlreadyProcessed)
	w = env.post("/api/admin/transactions/tx-9/approve", tok, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second approve: status = %d", w.Code)
	}
	if got := decodeError(t, w); got.Code != ErrCodeAlreadyProcessed || got.RequestID == "" {
		t.Fatalf("error = %+v", got)
	}
}

type recordingUpdates struct {
	updates []tgbotapi.Update
}

func (r *recordingUpdates) HandleUpdate(_ context.Context, u tgbotapi.Update) {
	r.updates = append(r.updates, u)
}

func TestTelegramWebhook(t *testing.T) {
	rec := &recordingUpdates{}
	wh := NewTelegramWebhook(rec, "s3cret")
	r := gin.New()
	r.POST("/telegram-webhook", wh.Handle)

	send := func(secret, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/telegram-webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set(telegramSecretHeader, secret)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("wrong", `{"update_id":1}`); code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status = %d", code)
	}
	if code := send("s3cret", `{not json`); code != http.StatusOK {
		t.Fatalf("malformed: status = %d", code)
	}
	if code := send("s3cret", `{"update_id":5,"callback_query":{"id":"cb","data":"approve_tx1"}}`); code != http.StatusOK {
		t.Fatalf("valid: status = %d", code)
	}
	if len(rec.updates) != 1 || rec.updates[0].UpdateID != 5 || rec.updates[0].CallbackQuery.Data != "approve_tx1" {
		t.Fatalf("updates = %+v", rec.updates)
	}
}
