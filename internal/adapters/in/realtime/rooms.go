package realtime

import "fulfillment/internal/core/domain/model/kernel"

// AgentsRoom is joined by every support agent session.
const AgentsRoom = "agents"

func OrderRoom(orderID kernel.UUID) string {
	return "order:" + orderID.String()
}

func DriverRoom(driverID kernel.UUID) string {
	return "driver:" + driverID.String()
}

func BranchRoom(branchID kernel.UUID) string {
	return "branch:" + branchID.String()
}

func ConversationRoom(conversationID kernel.UUID) string {
	return "conversation:" + conversationID.String()
}
