package adapter

import "context"

// DeliveryGateway hands allocated code payloads to a recipient over an
// external channel. The call is opaque: it either fully succeeds or fails,
// may take arbitrarily long, and must never be invoked while a database
// transaction is open.
type DeliveryGateway interface {
	Deliver(ctx context.Context, recipientID string, payloads []string) error
}
