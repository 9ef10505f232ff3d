// Package services holds domain logic that spans more than one aggregate.
//
// DriverDispatcher pairs a ready order with a free driver of the same branch.
// It is intentionally a simple matcher: route optimization is out of scope.
package services
