// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  Both queues are durable; producers and the audit consumer
// declare them idempotently.
const (
	AccountQueueName = "account.registered"
	CatalogQueueName = "catalog.changed"
)

// AccountRegisteredEvent is published after a successful signup.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type AccountRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	RegisteredAt string `json:"registered_at"`
}

// CatalogChangedEvent is published after an admin creates, edits or deletes
// a product.  Action is one of "created", "updated", "deleted".
type CatalogChangedEvent struct {
	Action     string `json:"action"`
	ProductID  uint64 `json:"product_id"`
	Title      string `json:"title"`
	ActorID    uint64 `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}
