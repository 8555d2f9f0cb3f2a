package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Fi44er/points_bot/internal/models"
)

func TestCreateRedemption_EscrowsAndDeclineRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 3001, 50)
	reward := f.reward(t, models.RewardCustom, 50, 0)

	red, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{
		UserID:   u.ID,
		RewardID: reward.ID,
		Form:     models.FormData{Text: "blue hoodie"},
	})
	if err != nil {
		t.Fatalf("CreateRedemption: %v", err)
	}
	if red.Status != models.StatusPending || red.PointsUsed != 50 || red.RewardName != reward.Name {
		t.Fatalf("redemption = %+v", red)
	}
	if got := f.reload(t, u.ID).Points; got != 0 {
		t.Fatalf("points after create = %d, want 0", got)
	}

	if err := f.svc.DeclineRedemption(ctx, red.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if got := f.reload(t, u.ID).Points; got != 50 {
		t.Fatalf("points after decline = %d, want 50", got)
	}

	history, err := f.svc.PointsHistory(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}
	byType := map[models.HistoryType]models.PointsHistory{}
	for _, h := range history {
		byType[h.Type] = h
	}
	if byType[models.HistorySpent].Points != -50 || byType[models.HistoryRefunded].Points != 50 {
		t.Fatalf("history = %+v", history)
	}
	if byType[models.HistoryRefunded].Description != "Refunded from declined redemption: "+reward.Name {
		t.Fatalf("refund description = %q", byType[models.HistoryRefunded].Description)
	}

	if err := f.svc.DeclineRedemption(ctx, red.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second decline: %v", err)
	}
	if got := f.reload(t, u.ID).Points; got != 50 {
		t.Fatalf("points refunded twice: %d", got)
	}

	f.svc.Wait()
	sent := f.notifier.all()
	if len(sent) != 1 || !sent[0].IsRedemption || sent[0].EntityID != red.ID {
		t.Fatalf("notifications = %+v", sent)
	}
}

func TestCreateRedemption_InsufficientPointsWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 3002, 0)
	reward := f.reward(t, models.RewardCredits, 100, 10)

	_, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{UserID: u.ID, RewardID: reward.ID})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err = %v", err)
	}

	reds, _ := f.svc.ListUserRedemptions(ctx, u.ID)
	history, _ := f.svc.PointsHistory(ctx, u.ID)
	if len(reds) != 0 || len(history) != 0 {
		t.Fatalf("records written: redemptions=%d history=%d", len(reds), len(history))
	}
	if got := f.reload(t, u.ID).Points; got != 0 {
		t.Fatalf("points = %d", got)
	}
}

func TestCreateRedemption_RewardChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 3003, 500)
	inactive := f.reward(t, models.RewardCredits, 10, 10)
	off := false
	if _, err := f.svc.UpdateReward(ctx, inactive.ID, RewardPatch{Active: &off}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{UserID: u.ID, RewardID: "missing"}); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("missing reward: %v", err)
	}
	if _, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{UserID: u.ID, RewardID: inactive.ID}); !errors.Is(err, ErrRewardInactive) {
		t.Fatalf("inactive reward: %v", err)
	}

	cash := f.reward(t, models.RewardCash, 10, 5000)
	_, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{
		UserID:   u.ID,
		RewardID: cash.ID,
		Form:     models.FormData{BankDetails: &models.BankDetails{BankName: "Bank"}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "bankDetails" {
		t.Fatalf("incomplete bank details: %v", err)
	}
	if got := f.reload(t, u.ID).Points; got != 500 {
		t.Fatalf("points deducted on rejected redemption: %d", got)
	}
}

func TestCreateRedemption_ConcurrentSpendsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 3004, 100)
	reward := f.reward(t, models.RewardCustom, 60, 0)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateRedemption(ctx, CreateRedemptionInput{UserID: u.ID, RewardID: reward.ID})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, ErrInsufficientPoints) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful redemptions = %d", ok)
	}
	if got := f.reload(t, u.ID).Points; got != 40 {
		t.Fatalf("points = %d, want 40", got)
	}
}

func TestReferralRedemption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.user(t, 4001, 200)
	friend := f.user(t, 4002, 0)
	reward := f.reward(t, models.RewardReferral, 100, 30)

	tests := []struct {
		name   string
		chatID int64
	}{
		{"missing", 0},
		{"self", 4001},
		{"unknown", 9999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{
				UserID:   requester.ID,
				RewardID: reward.ID,
				Form:     models.FormData{ReferralChatID: tt.chatID},
			})
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v", err)
			}
		})
	}

	red, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{
		UserID:   requester.ID,
		RewardID: reward.ID,
		Form:     models.FormData{ReferralChatID: 4002, Text: "dropped"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if red.FormData.Text != "" || red.FormData.ReferralChatID != 4002 {
		t.Fatalf("form data = %+v", red.FormData)
	}

	if err := f.svc.ApproveRedemption(ctx, red.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := f.reload(t, friend.ID).Credits; got != 30 {
		t.Fatalf("friend credits = %d, want 30", got)
	}
	r := f.reload(t, requester.ID)
	if r.Credits != 0 || r.Points != 100 {
		t.Fatalf("requester credits=%d points=%d", r.Credits, r.Points)
	}
}

func TestApproveRedemption_Effects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 5001, 1000)

	credits := f.reward(t, models.RewardCredits, 100, 25)
	red, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{UserID: u.ID, RewardID: credits.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ApproveRedemption(ctx, red.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.reload(t, u.ID).Credits; got != 25 {
		t.Fatalf("credits = %d, want 25", got)
	}
	if err := f.svc.ApproveRedemption(ctx, red.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second approve: %v", err)
	}
	if got := f.reload(t, u.ID).Credits; got != 25 {
		t.Fatalf("credits after second approve = %d", got)
	}

	cash := f.reward(t, models.RewardCash, 100, 5000)
	red, err = f.svc.CreateRedemption(ctx, CreateRedemptionInput{
		UserID:   u.ID,
		RewardID: cash.ID,
		Form: models.FormData{BankDetails: &models.BankDetails{
			BankName: "Bank", AccountNumber: "0123456789", AccountName: "Ada",
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ApproveRedemption(ctx, red.ID); err != nil {
		t.Fatal(err)
	}
	got := f.reload(t, u.ID)
	if got.Credits != 25 || got.Points != 800 {
		t.Fatalf("credits=%d points=%d", got.Credits, got.Points)
	}

	stored, err := f.svc.GetRedemption(ctx, red.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.StatusApproved || stored.CompletedAt == nil {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestApproveRedemption_UsesSnapshotValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 5002, 100)
	reward := f.reward(t, models.RewardCredits, 100, 10)

	red, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{UserID: u.ID, RewardID: reward.ID})
	if err != nil {
		t.Fatal(err)
	}
	value := 99.0
	if _, err := f.svc.UpdateReward(ctx, reward.ID, RewardPatch{Value: &value}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ApproveRedemption(ctx, red.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.reload(t, u.ID).Credits; got != 10 {
		t.Fatalf("credits = %d, want 10", got)
	}
}

func TestRedemptionDecisions_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.svc.ApproveRedemption(ctx, "missing"); !errors.Is(err, ErrRedemptionNotFound) {
		t.Fatalf("approve: %v", err)
	}
	if err := f.svc.DeclineRedemption(ctx, "missing"); !errors.Is(err, ErrRedemptionNotFound) {
		t.Fatalf("decline: %v", err)
	}
}

func TestApproveReferral_TargetRemovedKeepsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.user(t, 4101, 200)
	friend := f.user(t, 4102, 0)
	reward := f.reward(t, models.RewardReferral, 100, 30)

	red, err := f.svc.CreateRedemption(ctx, CreateRedemptionInput{
		UserID:   requester.ID,
		RewardID: reward.ID,
		Form:     models.FormData{ReferralChatID: 4102},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.db.Delete(&models.User{}, "id = ?", friend.ID).Error; err != nil {
		t.Fatal(err)
	}

	err = f.svc.ApproveRedemption(ctx, red.ID)
	if !errors.Is(err, ErrReferralUnavailable) {
		t.Fatalf("approve err = %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("missing referral target must not read as a missing redemption")
	}

	got, err := f.svc.GetRedemption(ctx, red.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}

	if err := f.svc.DeclineRedemption(ctx, red.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if p := f.reload(t, requester.ID).Points; p != 200 {
		t.Fatalf("points after refund = %d, want 200", p)
	}
}
