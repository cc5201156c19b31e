package checkout

import (
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/pricing"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	}
	return "unknown"
}

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
)

type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// missing returns the json name of the first blank field, or "".
func (i ShippingInfo) missing() string {
	fields := []struct{ name, value string }{
		{"first_name", i.FirstName},
		{"last_name", i.LastName},
		{"email", i.Email},
		{"phone", i.Phone},
		{"address", i.Address},
		{"city", i.City},
		{"state", i.State},
		{"zip_code", i.ZipCode},
		{"country", i.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

type Session struct {
	UserID         string                 `json:"user_id"`
	Step           Step                   `json:"step"`
	StepName       string                 `json:"step_name"`
	Shipping       *ShippingInfo          `json:"shipping,omitempty"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
	Payment        PaymentMethod          `json:"payment_method,omitempty"`
	SameAsBilling  bool                   `json:"same_as_billing"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func newSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:         userID,
		Step:           StepShipping,
		StepName:       StepShipping.String(),
		ShippingMethod: pricing.ShippingStandard,
		SameAsBilling:  true,
		UpdatedAt:      now,
	}
}

func (s *Session) moveTo(step Step, now time.Time) {
	s.Step = step
	s.StepName = step.String()
	s.UpdatedAt = now
}

// reachable reports whether step may be shown next: at most one step
// ahead, and only once the steps before it have their data.
func (s *Session) reachable(step Step) bool {
	if step < StepShipping || step > StepReview || step > s.Step+1 {
		return false
	}
	if step >= StepPayment && s.Shipping == nil {
		return false
	}
	if step >= StepReview && s.Payment == "" {
		return false
	}
	return true
}
