// Package driver contains the Driver aggregate: the persisted side of a
// delivery staff member (availability and last reported position).
package driver

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
)

// Driver is a delivery staff member attached to one branch.
//
// Business rules:
//   - a driver has a branch and a non-empty name
//   - availability flips on realtime join and disconnect
//   - the stored position is a throttled snapshot, never the live stream
type Driver struct {
	id         kernel.UUID
	branchID   kernel.UUID
	name       string
	available  bool
	position   *kernel.GeoPoint
	positionAt *time.Time

	guard guard.ConstructorGuard
}

// NewDriver registers an offline driver without a known position.
func NewDriver(id, branchID kernel.UUID, name string) (*Driver, error) {
	d := &Driver{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		d.setID(id),
		d.setBranchID(branchID),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver rebuilds a driver loaded from storage.
func RestoreDriver(
	id, branchID kernel.UUID,
	name string,
	available bool,
	position *kernel.GeoPoint,
	positionAt *time.Time,
) (*Driver, error) {
	d, err := NewDriver(id, branchID, name)
	if err != nil {
		return nil, err
	}
	if position != nil {
		if err = position.Validate(); err != nil {
			return nil, err
		}
	}
	d.available = available
	d.position = position
	d.positionAt = positionAt
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID              { return d.id }
func (d *Driver) BranchID() kernel.UUID        { return d.branchID }
func (d *Driver) Name() string                 { return d.name }
func (d *Driver) IsAvailable() bool            { return d.available }
func (d *Driver) Position() *kernel.GeoPoint   { return d.position }
func (d *Driver) PositionAt() *time.Time       { return d.positionAt }
func (d *Driver) IsEqual(other *Driver) bool   { return other != nil && d.id.IsEqual(other.id) }
func (d *Driver) SetAvailable(available bool)  { d.available = available }

// MoveTo records a position snapshot.
func (d *Driver) MoveTo(position kernel.GeoPoint, at time.Time) error {
	if err := position.Validate(); err != nil {
		return err
	}
	at = at.UTC()
	d.position = &position
	d.positionAt = &at
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setBranchID(branchID kernel.UUID) error {
	if err := branchID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("branchId", err)
	}
	d.branchID = branchID
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}
