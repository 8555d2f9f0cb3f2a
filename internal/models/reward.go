package models

import (
	"errors"
	"fmt"
	"strings"
)

type RewardType string

const (
	RewardCredits       RewardType = "credits"
	RewardPasswordReset RewardType = "password_reset"
	RewardReferral      RewardType = "referral"
	RewardCash          RewardType = "cash"
	RewardCustom        RewardType = "custom"
)

func (t RewardType) Valid() bool {
	switch t {
	case RewardCredits, RewardPasswordReset, RewardReferral, RewardCash, RewardCustom:
		return true
	}
	return false
}

type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

func (b BankDetails) complete() bool {
	return strings.TrimSpace(b.BankName) != "" &&
		strings.TrimSpace(b.AccountNumber) != "" &&
		strings.TrimSpace(b.AccountName) != ""
}

// FormData is the raw, type-dependent payload a user submits with a redemption.
type FormData struct {
	Username       string       `json:"username,omitempty"`
	ReferralChatID int64        `json:"referralChatId,omitempty"`
	BankDetails    *BankDetails `json:"bankDetails,omitempty"`
	Text           string       `json:"text,omitempty"`
}

var ErrInvalidClaim = errors.New("invalid reward claim")

// ClaimError reports which form field made a claim invalid.
type ClaimError struct {
	Field  string
	Reason string
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ClaimError) Is(target error) bool { return target == ErrInvalidClaim }

// RewardClaim is one of CreditsClaim, PasswordResetClaim, ReferralClaim,
// CashClaim or CustomClaim.
type RewardClaim interface {
	Type() RewardType
	Form() FormData
	isRewardClaim()
}

type CreditsClaim struct{}

type PasswordResetClaim struct {
	Username string
}

type ReferralClaim struct {
	ReferralChatID int64
}

type CashClaim struct {
	Bank BankDetails
}

type CustomClaim struct {
	Text string
}

func (CreditsClaim) Type() RewardType       { return RewardCredits }
func (PasswordResetClaim) Type() RewardType { return RewardPasswordReset }
func (ReferralClaim) Type() RewardType      { return RewardReferral }
func (CashClaim) Type() RewardType          { return RewardCash }
func (CustomClaim) Type() RewardType        { return RewardCustom }

func (CreditsClaim) Form() FormData { return FormData{} }
func (c PasswordResetClaim) Form() FormData {
	return FormData{Username: c.Username}
}
func (c ReferralClaim) Form() FormData {
	return FormData{ReferralChatID: c.ReferralChatID}
}
func (c CashClaim) Form() FormData {
	bank := c.Bank
	return FormData{BankDetails: &bank}
}
func (c CustomClaim) Form() FormData { return FormData{Text: c.Text} }

func (CreditsClaim) isRewardClaim()       {}
func (PasswordResetClaim) isRewardClaim() {}
func (ReferralClaim) isRewardClaim()      {}
func (CashClaim) isRewardClaim()          {}
func (CustomClaim) isRewardClaim()        {}

// NewRewardClaim validates form against the reward type and returns the
// matching variant. Fields irrelevant to the type are dropped.
func NewRewardClaim(t RewardType, form FormData) (RewardClaim, error) {
	switch t {
	case RewardCredits:
		return CreditsClaim{}, nil
	case RewardPasswordReset:
		return PasswordResetClaim{Username: strings.TrimPrefix(strings.TrimSpace(form.Username), "@")}, nil
	case RewardReferral:
		if form.ReferralChatID == 0 {
			return nil, &ClaimError{Field: "referralChatId", Reason: "is required"}
		}
		return ReferralClaim{ReferralChatID: form.ReferralChatID}, nil
	case RewardCash:
		if form.BankDetails == nil || !form.BankDetails.complete() {
			return nil, &ClaimError{Field: "bankDetails", Reason: "bank name, account number and account name are required"}
		}
		return CashClaim{Bank: *form.BankDetails}, nil
	case RewardCustom:
		return CustomClaim{Text: form.Text}, nil
	default:
		return nil, &ClaimError{Field: "type", Reason: fmt.Sprintf("unknown reward type %q", t)}
	}
}
