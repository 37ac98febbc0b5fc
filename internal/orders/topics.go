package orders

const (
	TopicOrderCreated       = "orders.created"
	TopicOrderStatusChanged = "orders.status.changed"
)

// Partition key = order_id, so all events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
