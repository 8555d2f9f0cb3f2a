package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/Fi44er/points_bot/internal/models"
)

// Messages are Telegram HTML. Every user supplied value is escaped.

func transactionMessage(tx *models.Transaction) string {
	var b strings.Builder
	b.WriteString("🔔 <b>New Transaction</b>\n\n")
	fmt.Fprintf(&b, "👤 Username: @%s\n", html.EscapeString(tx.Username))
	fmt.Fprintf(&b, "💬 Chat ID: %d\n", tx.ChatID)
	fmt.Fprintf(&b, "💳 Credits: %d\n", tx.Credits)
	fmt.Fprintf(&b, "💰 Amount: ₦%.2f\n", tx.Amount)
	if tx.PromoCode != "" {
		fmt.Fprintf(&b, "🎟️ Promo: %s\n", html.EscapeString(tx.PromoCode))
	}
	if tx.Note != "" {
		fmt.Fprintf(&b, "📝 Note: %s\n", html.EscapeString(tx.Note))
	}
	fmt.Fprintf(&b, "🆔 Transaction ID: %s\n\n", tx.ID)
	b.WriteString("⏳ Status: PENDING")
	return b.String()
}

func redemptionMessage(red *models.Redemption, claim models.RewardClaim) string {
	var b strings.Builder
	b.WriteString("🎁 <b>New Points Redemption</b>\n\n")
	fmt.Fprintf(&b, "👤 Username: @%s\n", html.EscapeString(red.Username))
	fmt.Fprintf(&b, "💬 Chat ID: %d\n", red.ChatID)
	fmt.Fprintf(&b, "🏆 Reward: %s\n", html.EscapeString(red.RewardName))
	fmt.Fprintf(&b, "💎 Points Used: %d\n", red.PointsUsed)

	switch c := claim.(type) {
	case models.PasswordResetClaim:
		b.WriteString("\n🔐 Type: Password Reset Link")
		if c.Username != "" {
			fmt.Fprintf(&b, "\n📝 IG Username: @%s", html.EscapeString(c.Username))
		}
		fmt.Fprintf(&b, "\n💳 Credits to Award: %s", formatValue(red.RewardValue))
	case models.ReferralClaim:
		b.WriteString("\n👥 Type: Referral")
		fmt.Fprintf(&b, "\n📱 Referred Chat ID: %d", c.ReferralChatID)
		fmt.Fprintf(&b, "\n💳 Free Credits for Friend: %s", formatValue(red.RewardValue))
	case models.CashClaim:
		b.WriteString("\n💰 Type: Cash Withdrawal")
		fmt.Fprintf(&b, "\n💵 Amount: ₦%s", formatValue(red.RewardValue))
		fmt.Fprintf(&b, "\n🏦 Bank: %s", html.EscapeString(c.Bank.BankName))
		fmt.Fprintf(&b, "\n💳 Account: %s", html.EscapeString(c.Bank.AccountNumber))
		fmt.Fprintf(&b, "\n👤 Name: %s", html.EscapeString(c.Bank.AccountName))
	case models.CreditsClaim:
		b.WriteString("\n💳 Type: Credit Reward")
		fmt.Fprintf(&b, "\n💎 Credits to Award: %s", formatValue(red.RewardValue))
	case models.CustomClaim:
		b.WriteString("\n✨ Type: Custom Reward")
		if c.Text != "" {
			fmt.Fprintf(&b, "\n📝 Details: %s", html.EscapeString(c.Text))
		}
	}

	fmt.Fprintf(&b, "\n🆔 Redemption ID: %s", red.ID)
	b.WriteString("\n\n⏳ Status: PENDING")
	return b.String()
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
