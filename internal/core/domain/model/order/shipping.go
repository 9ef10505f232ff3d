package order

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrShippingDetailsIsNotConstructed = errors.New("ShippingDetails must be created via NewShippingDetails constructor")

// ShippingDetails is the delivery address snapshot taken at checkout.
type ShippingDetails struct { //nolint:recvcheck //using for validation
	recipientName string
	phone         string
	address       string
	city          string
	notes         string

	guard guard.ConstructorGuard
}

// NewShippingDetails requires an address and a phone number; the remaining
// fields are free text.
func NewShippingDetails(recipientName, phone, address, city, notes string) (ShippingDetails, error) {
	details := ShippingDetails{
		recipientName: strings.TrimSpace(recipientName),
		city:          strings.TrimSpace(city),
		notes:         strings.TrimSpace(notes),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		details.setPhone(phone),
		details.setAddress(address),
	); err != nil {
		return ShippingDetails{}, err
	}

	return details, nil
}

func (d ShippingDetails) Validate() error {
	return d.guard.Validate(ErrShippingDetailsIsNotConstructed)
}

func (d ShippingDetails) RecipientName() string { return d.recipientName }
func (d ShippingDetails) Phone() string         { return d.phone }
func (d ShippingDetails) Address() string       { return d.address }
func (d ShippingDetails) City() string          { return d.city }
func (d ShippingDetails) Notes() string         { return d.notes }

func (d *ShippingDetails) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.NewValueIsRequiredError("shippingDetails.phone")
	}
	d.phone = phone
	return nil
}

func (d *ShippingDetails) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("shippingDetails.address")
	}
	d.address = address
	return nil
}
