// Package checkout simulates payment for a session cart.
package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/nexora-storefront/internal/cart"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultProcessingDelay = 1800 * time.Millisecond
	DefaultCouponDiscount  = 199
)

// Cart is the part of the cart store checkout reads and consumes.
type Cart interface {
	Summary() cart.Summary
	Consume(ctx context.Context, purchased []cart.LineItem)
}

// Confirmation describes a simulated order.
type Confirmation struct {
	OrderID        uuid.UUID           `json:"order_id"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	ItemCount      int                 `json:"item_count"`
	Subtotal       int                 `json:"subtotal"`
	Tax            int                 `json:"tax"`
	Shipping       int                 `json:"shipping"`
	CouponDiscount int                 `json:"coupon_discount"`
	Total          int                 `json:"total"`
	Step           enums.CheckoutStep  `json:"step"`
	PlacedAt       time.Time           `json:"placed_at"`
}

// Service executes the simulated checkout.
type Service interface {
	Checkout(ctx context.Context, c Cart, req Request, notifier notifications.Notifier) (*Confirmation, error)
	// Quote previews the payable total with an optional coupon applied.
	Quote(c Cart, couponCode string) Quote
}

// Quote is the order summary shown beside the form.
type Quote struct {
	cart.Summary
	CouponDiscount int `json:"coupon_discount"`
	Payable        int `json:"payable"`
}

type ServiceParams struct {
	ProcessingDelay time.Duration
	CouponDiscount  int
	Logger          *logger.Logger
	// Now stamps PlacedAt; defaults to time.Now.
	Now func() time.Time
	// After replaces time.After in tests.
	After func(time.Duration) <-chan time.Time
}

type service struct {
	delay  time.Duration
	coupon int
	logg   *logger.Logger
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
}

func NewService(params ServiceParams) Service {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	after := params.After
	if after == nil {
		after = time.After
	}
	return &service{
		delay:  params.ProcessingDelay,
		coupon: params.CouponDiscount,
		logg:   logg,
		now:    now,
		after:  after,
	}
}

func (s *service) Quote(c Cart, couponCode string) Quote {
	return s.quote(c.Summary(), couponCode)
}

func (s *service) quote(summary cart.Summary, couponCode string) Quote {
	discount := 0
	if couponCode != "" && len(summary.Items) > 0 {
		discount = s.coupon
	}
	payable := summary.Total - discount
	if payable < 0 {
		payable = 0
	}
	return Quote{Summary: summary, CouponDiscount: discount, Payable: payable}
}

func (s *service) Checkout(ctx context.Context, c Cart, req Request, notifier notifications.Notifier) (*Confirmation, error) {
	notifier = notifications.OrNop(notifier)
	req = req.Normalize()

	summary := c.Summary()
	if len(summary.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := req.Validate(); err != nil {
		notifier.Notify(ctx, notifications.Notification{
			Title:       "Please complete required fields",
			Description: "Some fields need your attention.",
		})
		return nil, err
	}

	quote := s.quote(summary, req.CouponCode)
	if err := s.process(ctx); err != nil {
		return nil, err
	}

	c.Consume(ctx, summary.Items)
	conf := &Confirmation{
		OrderID:        uuid.New(),
		PaymentMethod:  req.PaymentMethod,
		ItemCount:      summary.ItemCount,
		Subtotal:       summary.Subtotal,
		Tax:            summary.Tax,
		Shipping:       summary.Shipping,
		CouponDiscount: quote.CouponDiscount,
		Total:          quote.Payable,
		Step:           enums.CheckoutStepDone,
		PlacedAt:       s.now().UTC(),
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":       conf.OrderID.String(),
		"payment_method": conf.PaymentMethod.String(),
		"total":          conf.Total,
	})
	s.logg.Info(ctx, "checkout completed")
	notifier.Notify(ctx, notifications.Notification{
		Title:       "Payment successful",
		Description: "Your order is confirmed and being processed.",
	})
	return conf, nil
}

func (s *service) process(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "checkout canceled")
	case <-s.after(s.delay):
		return nil
	}
}
