package bot

import (
	"fmt"
	"strings"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionDecline Action = "decline"
)

const redemptionPrefix = "redeem_"

// CallbackData is the decoded payload of an approve/decline button.
type CallbackData struct {
	Action     Action
	ID         string
	Redemption bool
}

func (c CallbackData) String() string {
	s := string(c.Action) + "_" + c.ID
	if c.Redemption {
		return redemptionPrefix + s
	}
	return s
}

// ParseCallbackData decodes "<action>_<id>" and "redeem_<action>_<id>". The
// redemption prefix is checked first and only the first separator after the
// action is split on, so ids may contain underscores.
func ParseCallbackData(data string) (CallbackData, error) {
	var out CallbackData
	rest := data
	if strings.HasPrefix(rest, redemptionPrefix) {
		out.Redemption = true
		rest = strings.TrimPrefix(rest, redemptionPrefix)
	}

	action, id, ok := strings.Cut(rest, "_")
	if !ok || id == "" {
		return CallbackData{}, fmt.Errorf("malformed callback data %q", data)
	}
	switch Action(action) {
	case ActionApprove, ActionDecline:
		out.Action = Action(action)
	default:
		return CallbackData{}, fmt.Errorf("unknown callback action %q", action)
	}
	out.ID = id
	return out, nil
}
