package enums

// CheckoutStep tracks the shopper's position in the checkout flow.
type CheckoutStep string

const (
	CheckoutStepCart     CheckoutStep = "cart"
	CheckoutStepCheckout CheckoutStep = "checkout"
	CheckoutStepDone     CheckoutStep = "done"
)

var checkoutSteps = []CheckoutStep{CheckoutStepCart, CheckoutStepCheckout, CheckoutStepDone}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// Index returns the zero-based position of the step, or -1 when unknown.
func (s CheckoutStep) Index() int {
	for i, candidate := range checkoutSteps {
		if candidate == s {
			return i
		}
	}
	return -1
}

// CheckoutSteps lists the steps in order.
func CheckoutSteps() []CheckoutStep {
	return append([]CheckoutStep(nil), checkoutSteps...)
}
