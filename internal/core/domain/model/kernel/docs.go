// Package kernel provides the shared domain primitives of the fulfillment engine.
//
// The package includes:
//   - UUID: identifier value object used by every aggregate
//   - GeoPoint: a validated WGS84 latitude/longitude pair reported by drivers
//
// Both are immutable value objects; their zero values are invalid and fail Validate.
package kernel
