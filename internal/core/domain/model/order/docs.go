// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order is created pending with an immutable snapshot of its line items and
// shipping details, then moves through
//
//	pending → confirmed → preparing → ready → assigned_to_delivery → accepted → picked_up → arriving → delivered
//
// with cancelled and rejected reachable from every non-terminal status.
// delivered, cancelled and rejected are terminal.
//
// The aggregate never touches inventory or slots itself. Every successful
// transition returns a Transition value describing which ledger compensations
// and side effects the application layer must apply inside the same unit of work.
package order
