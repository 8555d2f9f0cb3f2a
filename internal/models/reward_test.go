package models

import (
	"errors"
	"testing"
)

func TestNewRewardClaim(t *testing.T) {
	bank := &BankDetails{BankName: "GTB", AccountNumber: "0123456789", AccountName: "Ada"}

	cases := []struct {
		name    string
		typ     RewardType
		form    FormData
		want    RewardType
		wantErr bool
	}{
		{"credits ignores form", RewardCredits, FormData{Text: "x"}, RewardCredits, false},
		{"password reset", RewardPasswordReset, FormData{Username: "@someone"}, RewardPasswordReset, false},
		{"referral needs chat id", RewardReferral, FormData{}, "", true},
		{"referral", RewardReferral, FormData{ReferralChatID: 77}, RewardReferral, false},
		{"cash needs bank", RewardCash, FormData{}, "", true},
		{"cash partial bank", RewardCash, FormData{BankDetails: &BankDetails{BankName: "GTB", AccountNumber: "1"}}, "", true},
		{"cash", RewardCash, FormData{BankDetails: bank}, RewardCash, false},
		{"custom", RewardCustom, FormData{Text: "anything"}, RewardCustom, false},
		{"unknown", RewardType("lottery"), FormData{}, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claim, err := NewRewardClaim(tc.typ, tc.form)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidClaim) {
					t.Fatalf("expected ErrInvalidClaim, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claim.Type() != tc.want {
				t.Fatalf("type = %s, want %s", claim.Type(), tc.want)
			}
		})
	}
}

func TestRewardClaim_FormKeepsOnlyRelevantFields(t *testing.T) {
	claim, err := NewRewardClaim(RewardPasswordReset, FormData{Username: "@ig_user", Text: "drop me"})
	if err != nil {
		t.Fatal(err)
	}
	form := claim.Form()
	if form.Username != "ig_user" {
		t.Errorf("username = %q", form.Username)
	}
	if form.Text != "" {
		t.Errorf("text should be dropped, got %q", form.Text)
	}
}

func TestPointsConfigValidate(t *testing.T) {
	if err := DefaultPointsConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := []PointsConfig{
		{Threshold1: PointsTier{100, 0.1}, Threshold2: PointsTier{200, 0.05}},
		{Threshold1: PointsTier{200, 0.01}, Threshold2: PointsTier{100, 0.05}},
		{Threshold1: PointsTier{200, -1}, Threshold2: PointsTier{100, 0}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
