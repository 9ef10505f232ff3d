// Package chat models support conversations between a customer and at most one
// assigned agent. Conversations are independent of orders; they share only the
// realtime transport.
package chat
