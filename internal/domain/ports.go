package domain

import (
	"context"
	"time"
)

// Collaborator ports consumed by the settlement pipeline. Implementations
// live in internal/infrastructure; tests use hand-rolled fakes.

type MailerPort interface {
	Send(ctx context.Context, to, subject, body string) error
}

// GroupStorePort manages entitlement group membership for purchased products.
type GroupStorePort interface {
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// DirectoryPort resolves contact details from the user store, which is owned
// elsewhere.
type DirectoryPort interface {
	UserEmail(ctx context.Context, userID string) (string, error)
}

// BlacklistPort executes fraud-response actions on dispute notifications.
type BlacklistPort interface {
	BlacklistUser(ctx context.Context, userID, reason string) error
}

// ProviderPort mirrors local catalog records into the payment processor and
// hosts coupon objects there. One external call per operation, no local
// retries; errors propagate to the retry-capable caller.
type ProviderPort interface {
	CreateProduct(ctx context.Context, p *Product) (externalID string, err error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, externalID string) error

	CreatePrice(ctx context.Context, pr *Price) (externalID string, err error)
	UpdatePrice(ctx context.Context, pr *Price) error
	DeletePrice(ctx context.Context, externalID string) error

	CreateCoupon(ctx context.Context, d *Discount) (externalID string, err error)
}

// Clock is injected so discount expiry and event timestamps are testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
