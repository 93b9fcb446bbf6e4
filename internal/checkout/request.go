package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Shipping is the contact and delivery part of the checkout form.
type Shipping struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,loose_email"`
	Phone     string `json:"phone" validate:"len=10,numeric"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"len=6,numeric"`
}

// Card is only validated when paying by card.
type Card struct {
	Name   string `json:"cardName" validate:"required"`
	Number string `json:"cardNumber" validate:"len=16,numeric"`
	Expiry string `json:"expiry" validate:"card_expiry"`
	CVC    string `json:"cvc" validate:"min=3,max=4,numeric"`
}

// Request is the submitted checkout form.
type Request struct {
	Shipping
	Card
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	CouponCode    string              `json:"couponCode"`
}

var (
	looseEmailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	expiryRe     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	whitespaceRe = regexp.MustCompile(`\s`)
)

// fieldMessages are the per-field messages shown next to the form inputs.
var fieldMessages = map[string]string{
	"email":      "Enter a valid email",
	"phone":      "Enter 10 digit mobile",
	"zip":        "Enter 6 digit PIN",
	"cardNumber": "Enter 16 digit card",
	"expiry":     "MM/YY",
	"cvc":        "Invalid CVC",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return looseEmailRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims every field, strips formatting from phone and card number
// and defaults the payment method to card.
func (r Request) Normalize() Request {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = nonDigitRe.ReplaceAllString(r.Phone, "")
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Zip = strings.TrimSpace(r.Zip)
	r.Card.Name = strings.TrimSpace(r.Card.Name)
	r.Number = whitespaceRe.ReplaceAllString(r.Number, "")
	r.Expiry = strings.TrimSpace(r.Expiry)
	r.CVC = strings.TrimSpace(r.CVC)
	r.CouponCode = strings.TrimSpace(r.CouponCode)
	r.PaymentMethod = enums.PaymentMethod(strings.ToLower(strings.TrimSpace(string(r.PaymentMethod))))
	if r.PaymentMethod == "" {
		r.PaymentMethod = enums.PaymentMethodCard
	}
	return r
}

// Validate returns a validation error whose details map each invalid field to
// its message. r should already be normalized.
func (r Request) Validate() error {
	details := map[string]string{}
	if !r.PaymentMethod.IsValid() {
		details["paymentMethod"] = "Choose card, upi or wallet"
	}
	collect(details, validate.Struct(r.Shipping))
	if r.PaymentMethod.RequiresCard() {
		collect(details, validate.Struct(r.Card))
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "Please complete required fields").WithDetails(details)
}

func collect(details map[string]string, err error) {
	if err == nil {
		return
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		details["form"] = err.Error()
		return
	}
	for _, fe := range errs {
		if _, seen := details[fe.Field()]; seen {
			continue
		}
		details[fe.Field()] = messageFor(fe)
	}
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "Required"
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return "is invalid"
}
