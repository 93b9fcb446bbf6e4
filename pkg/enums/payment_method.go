package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is how a shopper settles the simulated checkout.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCard:   "Credit / Debit Card",
	PaymentMethodUPI:    "UPI",
	PaymentMethodWallet: "Wallet",
}

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[p]
	return ok
}

// Label is the name shown on the payment step.
func (p PaymentMethod) Label() string {
	return paymentMethodLabels[p]
}

// RequiresCard reports whether the card fields must be filled in.
func (p PaymentMethod) RequiresCard() bool {
	return p == PaymentMethodCard
}

// ParsePaymentMethod accepts any letter case.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	if !method.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
