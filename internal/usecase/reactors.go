package usecase

import (
	"context"
	"fmt"

	"github.com/craftplace/settlement-service/internal/domain"
)

// Reactor is one independent handler subscribed to domain events. Reactors
// run under at-least-once delivery and must check persisted state before
// mutating it; mail is the one cosmetic exception that may repeat.
type Reactor interface {
	Name() string
	EventTypes() []string
	Handle(ctx context.Context, event domain.Event) error
}

// ---- order.succeeded ----

type SettlementReactor struct {
	Discounts DiscountUsecase
}

func (r *SettlementReactor) Name() string { return "discount_settlement" }
func (r *SettlementReactor) EventTypes() []string { return []string{domain.EventOrderSucceeded} }
func (r *SettlementReactor) Handle(ctx context.Context, event domain.Event) error {
	return r.Discounts.SettleForOrder(ctx, event.Order.OrderID)
}

type CommissionReactor struct {
	Commissions CommissionUsecase
}

func (r *CommissionReactor) Name() string { return "commission" }
func (r *CommissionReactor) EventTypes() []string { return []string{domain.EventOrderSucceeded} }
func (r *CommissionReactor) Handle(ctx context.Context, event domain.Event) error {
	return r.Commissions.Calculate(ctx, event.Order.OrderID)
}

type GiftCardReactor struct {
	Discounts DiscountUsecase
}

func (r *GiftCardReactor) Name() string { return "gift_card_minting" }
func (r *GiftCardReactor) EventTypes() []string { return []string{domain.EventOrderSucceeded} }
func (r *GiftCardReactor) Handle(ctx context.Context, event domain.Event) error {
	return r.Discounts.GenerateGiftCards(ctx, event.Order.OrderID)
}

// ---- order mail ----

type OrderMailReactor struct {
	Mailer domain.MailerPort
}

func (r *OrderMailReactor) Name() string { return "order_mail" }

func (r *OrderMailReactor) EventTypes() []string {
	return []string{
		domain.EventOrderSucceeded,
		domain.EventOrderCancelled,
		domain.EventOrderRefunded,
		domain.EventOrderRequiresAction,
	}
}

func (r *OrderMailReactor) Handle(ctx context.Context, event domain.Event) error {
	data := event.Order
	if data.UserID == nil || data.UserEmail == "" {
		// Guest/system order: nobody to mail. Settlement and commission
		// reactors still run for these orders.
		return nil
	}

	var subject, body string
	switch event.Type {
	case domain.EventOrderSucceeded:
		subject = "Your order is confirmed"
		body = fmt.Sprintf("Order %s was paid successfully.", data.OrderID)
	case domain.EventOrderCancelled:
		subject = "Your order was cancelled"
		body = fmt.Sprintf("Order %s has been cancelled.", data.OrderID)
	case domain.EventOrderRefunded:
		subject = "Your order was refunded"
		body = fmt.Sprintf("Order %s has been refunded. Reason: %s", data.OrderID, data.RefundReason)
	case domain.EventOrderRequiresAction:
		subject = "Your payment needs confirmation"
		body = fmt.Sprintf("Order %s requires additional confirmation: %s", data.OrderID, data.ConfirmationURL)
	}

	return r.Mailer.Send(ctx, data.UserEmail, subject, body)
}

// ---- entitlement groups ----

type EntitlementReactor struct {
	OrderRepo   domain.OrderRepository
	CatalogRepo domain.CatalogRepository
	Groups      domain.GroupStorePort
}

func (r *EntitlementReactor) Name() string { return "entitlement" }

func (r *EntitlementReactor) EventTypes() []string {
	return []string{
		domain.EventOrderSucceeded,
		domain.EventOrderCancelled,
		domain.EventOrderRefunded,
		domain.EventSubscriptionCreated,
		domain.EventSubscriptionUpdated,
		domain.EventSubscriptionDeleted,
	}
}

func (r *EntitlementReactor) Handle(ctx context.Context, event domain.Event) error {
	if event.Subscription != nil {
		return r.handleSubscription(ctx, event)
	}

	data := event.Order
	if data.UserID == nil {
		return nil
	}

	order, err := r.OrderRepo.GetOrderByID(data.OrderID)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		product, err := r.CatalogRepo.GetProductByID(item.ProductID)
		if err != nil {
			return err
		}
		if product.GroupID == nil {
			continue
		}
		if event.Type == domain.EventOrderSucceeded {
			err = r.Groups.AddMember(ctx, *product.GroupID, *data.UserID)
		} else {
			err = r.Groups.RemoveMember(ctx, *product.GroupID, *data.UserID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *EntitlementReactor) handleSubscription(ctx context.Context, event domain.Event) error {
	data := event.Subscription
	if data.UserID == nil || data.ProductID == "" {
		return nil
	}

	product, err := r.CatalogRepo.GetProductByID(data.ProductID)
	if err != nil {
		return err
	}
	if product.GroupID == nil {
		return nil
	}

	if event.Type == domain.EventSubscriptionDeleted || data.Status == "canceled" || data.Status == "unpaid" {
		return r.Groups.RemoveMember(ctx, *product.GroupID, *data.UserID)
	}
	return r.Groups.AddMember(ctx, *product.GroupID, *data.UserID)
}

// ---- discount mail ----

type DiscountMailReactor struct {
	Mailer domain.MailerPort
}

func (r *DiscountMailReactor) Name() string { return "discount_mail" }
func (r *DiscountMailReactor) EventTypes() []string { return []string{domain.EventDiscountCreated} }
func (r *DiscountMailReactor) Handle(ctx context.Context, event domain.Event) error {
	data := event.Discount
	if data.RecipientEmail == "" {
		return nil
	}
	subject := "You received a gift card"
	body := fmt.Sprintf("Your code %s is worth %d. Spend it at checkout.", data.Code, data.Value)
	return r.Mailer.Send(ctx, data.RecipientEmail, subject, body)
}

// ---- subscription webhooks ----

type WebhookReactor struct {
	Webhooks WebhookUsecase
}

func (r *WebhookReactor) Name() string { return "webhook_dispatch" }

func (r *WebhookReactor) EventTypes() []string {
	return []string{
		domain.EventSubscriptionCreated,
		domain.EventSubscriptionUpdated,
		domain.EventSubscriptionDeleted,
	}
}

func (r *WebhookReactor) Handle(ctx context.Context, event domain.Event) error {
	return r.Webhooks.Dispatch(ctx, event)
}

// ---- disputes ----

// FraudReactor answers a chargeback dispute: blacklist the buyer and mark
// the disputed order refunded. SetStatus is the idempotency guard for the
// order side; the blacklist store tolerates repeated adds.
type FraudReactor struct {
	Blacklist domain.BlacklistPort
	Orders    OrderUsecase
}

func (r *FraudReactor) Name() string { return "fraud_response" }
func (r *FraudReactor) EventTypes() []string { return []string{domain.EventDisputeCreated} }
func (r *FraudReactor) Handle(ctx context.Context, event domain.Event) error {
	data := event.Dispute
	if data.UserID != nil {
		if err := r.Blacklist.BlacklistUser(ctx, *data.UserID, fmt.Sprintf("dispute %s on order %s", data.DisputeID, data.OrderID)); err != nil {
			return err
		}
	}
	return r.Orders.SetStatus(ctx, data.OrderID, domain.StatusRefunded)
}
