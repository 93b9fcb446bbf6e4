package controllers

import (
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	checkoutsvc "github.com/angelmondragon/nexora-storefront/internal/checkout"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

// checkoutRequest is decoded without tag validation; the checkout service owns
// the form rules so card fields are only checked when paying by card.
type checkoutRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	CardName      string `json:"cardName"`
	CardNumber    string `json:"cardNumber"`
	Expiry        string `json:"expiry"`
	CVC           string `json:"cvc"`
	PaymentMethod string `json:"paymentMethod"`
	CouponCode    string `json:"couponCode"`
}

func (p checkoutRequest) toRequest() checkoutsvc.Request {
	return checkoutsvc.Request{
		Shipping: checkoutsvc.Shipping{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Phone:     p.Phone,
			Address:   p.Address,
			City:      p.City,
			State:     p.State,
			Zip:       p.Zip,
		},
		Card: checkoutsvc.Card{
			Name:   p.CardName,
			Number: p.CardNumber,
			Expiry: p.Expiry,
			CVC:    p.CVC,
		},
		PaymentMethod: enums.PaymentMethod(p.PaymentMethod),
		CouponCode:    p.CouponCode,
	}
}

// CheckoutQuote previews the payable total, applying the coupon when one is given.
func CheckoutQuote(svc checkoutsvc.Service, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coupon := validators.SanitizeString(r.URL.Query().Get("coupon"), 64)
		responses.WriteSuccess(w, svc.Quote(stores.Cart, coupon))
	}
}

// CheckoutSubmit validates the form, simulates payment and empties the cart.
func CheckoutSubmit(svc checkoutsvc.Service, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var notifier notifications.Notifier
		if rec, ok := notifications.RecorderFrom(r.Context()); ok {
			notifier = rec
		}
		confirmation, err := svc.Checkout(r.Context(), stores.Cart, payload.toRequest(), notifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSession(r.Context(), w, http.StatusCreated, confirmation)
	}
}

// CheckoutAddresses suggests saved delivery addresses matching q.
func CheckoutAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, checkoutsvc.SuggestAddresses(r.URL.Query().Get("q")))
	}
}
