package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/google/uuid"
)

// Hand-rolled fakes shared by the usecase tests. All of them are in-memory
// and record the calls the tests assert on.

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// ---- order repository ----

type fakeOrderRepo struct {
	orders map[string]*domain.Order

	statusWrites      []domain.OrderStatus
	stagedWrites      [][]string
	commissionWrites  map[string]int64
	commissionSellers map[string]string
	expired           []*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{
		orders:            make(map[string]*domain.Order),
		commissionWrites:  make(map[string]int64),
		commissionSellers: make(map[string]string),
	}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) CreateOrder(order *domain.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(orderID string, newStatus domain.OrderStatus) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = newStatus
	r.statusWrites = append(r.statusWrites, newStatus)
	return nil
}

func (r *fakeOrderRepo) UpdateOrderRefundDetails(orderID, reason, notes string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.RefundReason = reason
	o.RefundNotes = notes
	return nil
}

func (r *fakeOrderRepo) UpdateOrderConfirmationURL(orderID, url string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.ConfirmationURL = url
	return nil
}

func (r *fakeOrderRepo) UpdateStagedCodes(orderID string, codes []string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.StagedCodes = codes
	r.stagedWrites = append(r.stagedWrites, codes)
	return nil
}

func (r *fakeOrderRepo) SetItemCommission(itemID string, amount int64, recipient string) error {
	r.commissionWrites[itemID] = amount
	r.commissionSellers[itemID] = recipient
	for _, o := range r.orders {
		for _, item := range o.Items {
			if item.ID == itemID && item.CommissionAmount == nil {
				a := amount
				rec := recipient
				item.CommissionAmount = &a
				item.CommissionRecipient = &rec
			}
		}
	}
	return nil
}

func (r *fakeOrderRepo) FindExpiredOrders() ([]*domain.Order, error) {
	return r.expired, nil
}

// ---- discount repository ----

type fakeDiscountRepo struct {
	byID   map[string]*domain.Discount
	byCode map[string]*domain.Discount

	templates map[string]*domain.Discount // keyed by product id
	minted    map[string]int64            // keyed by orderID+itemID
	settled   map[string]*domain.OrderDiscount

	settleCalls int
	created     []*domain.Discount
	alwaysTaken bool // CodeExists returns true for every candidate
}

func newFakeDiscountRepo(discounts ...*domain.Discount) *fakeDiscountRepo {
	r := &fakeDiscountRepo{
		byID:      make(map[string]*domain.Discount),
		byCode:    make(map[string]*domain.Discount),
		templates: make(map[string]*domain.Discount),
		minted:    make(map[string]int64),
		settled:   make(map[string]*domain.OrderDiscount),
	}
	for _, d := range discounts {
		r.add(d)
	}
	return r
}

func (r *fakeDiscountRepo) add(d *domain.Discount) {
	r.byID[d.ID] = d
	r.byCode[d.Code] = d
	if d.IsTemplate() {
		r.templates[*d.ProductID] = d
	}
}

func (r *fakeDiscountRepo) CreateDiscount(d *domain.Discount) error {
	r.add(d)
	r.created = append(r.created, d)
	if d.SourceOrderID != nil && d.SourceItemID != nil {
		r.minted[*d.SourceOrderID+*d.SourceItemID]++
	}
	return nil
}

func (r *fakeDiscountRepo) GetDiscountByID(id string) (*domain.Discount, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDiscountNotFound
	}
	return d, nil
}

func (r *fakeDiscountRepo) GetDiscountByCode(code string) (*domain.Discount, error) {
	d, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrDiscountNotFound
	}
	return d, nil
}

func (r *fakeDiscountRepo) GetTemplateByProductID(productID string) (*domain.Discount, error) {
	d, ok := r.templates[productID]
	if !ok {
		return nil, domain.ErrDiscountNotFound
	}
	return d, nil
}

func (r *fakeDiscountRepo) CodeExists(code string) (bool, error) {
	if r.alwaysTaken {
		return true, nil
	}
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *fakeDiscountRepo) SetExternalID(discountID, externalID string) error {
	d, ok := r.byID[discountID]
	if !ok {
		return domain.ErrDiscountNotFound
	}
	d.ExternalID = externalID
	return nil
}

func (r *fakeDiscountRepo) GetOrderDiscount(orderID, discountID string) (*domain.OrderDiscount, error) {
	return r.settled[orderID+discountID], nil
}

func (r *fakeDiscountRepo) ListOrderDiscounts(orderID string) ([]*domain.OrderDiscount, error) {
	var out []*domain.OrderDiscount
	for _, od := range r.settled {
		if od.OrderID == orderID {
			out = append(out, od)
		}
	}
	return out, nil
}

func (r *fakeDiscountRepo) SettleOrderDiscounts(orderID string, applied []*domain.AppliedDiscount) ([]*domain.OrderDiscount, error) {
	r.settleCalls++
	var out []*domain.OrderDiscount
	for _, ad := range applied {
		key := orderID + ad.Discount.ID
		if existing, ok := r.settled[key]; ok {
			out = append(out, existing)
			continue
		}
		row := &domain.OrderDiscount{
			ID:            uuid.New().String(),
			OrderID:       orderID,
			DiscountID:    ad.Discount.ID,
			AmountApplied: ad.Amount,
		}
		if ad.Discount.BalanceBearing() && ad.Discount.CurrentBalance != nil {
			before := *ad.Discount.CurrentBalance
			amount := ad.Amount
			if amount > before {
				amount = before
			}
			if amount <= 0 {
				continue
			}
			after := before - amount
			row.AmountApplied = amount
			row.BalanceBefore = &before
			row.BalanceAfter = &after
			*ad.Discount.CurrentBalance = after
		}
		ad.Discount.TimesUsed++
		r.settled[key] = row
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeDiscountRepo) CountMintedCards(orderID, itemID string) (int64, error) {
	return r.minted[orderID+itemID], nil
}

// ---- catalog repository ----

type fakeCatalogRepo struct {
	products map[string]*domain.Product
	prices   map[string]*domain.Price

	productExternalIDs map[string]string
	priceExternalIDs   map[string]string
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products:           make(map[string]*domain.Product),
		prices:             make(map[string]*domain.Price),
		productExternalIDs: make(map[string]string),
		priceExternalIDs:   make(map[string]string),
	}
}

func (r *fakeCatalogRepo) GetProductByID(id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return p, nil
}

func (r *fakeCatalogRepo) GetPriceByID(id string) (*domain.Price, error) {
	p, ok := r.prices[id]
	if !ok {
		return nil, fmt.Errorf("price %s not found", id)
	}
	return p, nil
}

func (r *fakeCatalogRepo) SaveProduct(p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) SavePrice(pr *domain.Price) error {
	r.prices[pr.ID] = pr
	return nil
}

func (r *fakeCatalogRepo) SetProductExternalID(id, externalID string) error {
	r.productExternalIDs[id] = externalID
	if p, ok := r.products[id]; ok {
		p.ExternalID = externalID
	}
	return nil
}

func (r *fakeCatalogRepo) SetPriceExternalID(id, externalID string) error {
	r.priceExternalIDs[id] = externalID
	if p, ok := r.prices[id]; ok {
		p.ExternalID = externalID
	}
	return nil
}

// ---- event bus ----

type publishedMessage struct {
	Topic string
	Msg   domain.Message
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(topic string, msgs ...domain.Message) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		p.messages = append(p.messages, publishedMessage{Topic: topic, Msg: m})
	}
	return nil
}

func (p *fakePublisher) topicMessages(topic string) []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedMessage
	for _, m := range p.messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// ---- collaborators ----

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeDirectory struct {
	emails map[string]string
}

func (d *fakeDirectory) UserEmail(ctx context.Context, userID string) (string, error) {
	email, ok := d.emails[userID]
	if !ok {
		return "", fmt.Errorf("user %s not found", userID)
	}
	return email, nil
}

type fakeGroups struct {
	added   []string // "groupID/userID"
	removed []string
}

func (g *fakeGroups) AddMember(ctx context.Context, groupID, userID string) error {
	g.added = append(g.added, groupID+"/"+userID)
	return nil
}

func (g *fakeGroups) RemoveMember(ctx context.Context, groupID, userID string) error {
	g.removed = append(g.removed, groupID+"/"+userID)
	return nil
}

type fakeBlacklist struct {
	users []string
}

func (b *fakeBlacklist) BlacklistUser(ctx context.Context, userID, reason string) error {
	b.users = append(b.users, userID)
	return nil
}

type fakeProvider struct {
	createProductErr error
	createPriceErr   error
	updateErr        error
	deleteErr        error
	couponErr        error

	createdProducts []string
	updatedProducts []string
	deletedProducts []string
	createdPrices   []string
	updatedPrices   []string
	deletedPrices   []string
	createdCoupons  []string
}

func (p *fakeProvider) CreateProduct(ctx context.Context, product *domain.Product) (string, error) {
	if p.createProductErr != nil {
		return "", p.createProductErr
	}
	p.createdProducts = append(p.createdProducts, product.ID)
	return "prod_" + product.ID, nil
}

func (p *fakeProvider) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	p.updatedProducts = append(p.updatedProducts, product.ID)
	return nil
}

func (p *fakeProvider) DeleteProduct(ctx context.Context, externalID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deletedProducts = append(p.deletedProducts, externalID)
	return nil
}

func (p *fakeProvider) CreatePrice(ctx context.Context, price *domain.Price) (string, error) {
	if p.createPriceErr != nil {
		return "", p.createPriceErr
	}
	p.createdPrices = append(p.createdPrices, price.ID)
	return "price_" + price.ID, nil
}

func (p *fakeProvider) UpdatePrice(ctx context.Context, price *domain.Price) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	p.updatedPrices = append(p.updatedPrices, price.ID)
	return nil
}

func (p *fakeProvider) DeletePrice(ctx context.Context, externalID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deletedPrices = append(p.deletedPrices, externalID)
	return nil
}

func (p *fakeProvider) CreateCoupon(ctx context.Context, d *domain.Discount) (string, error) {
	if p.couponErr != nil {
		return "", p.couponErr
	}
	p.createdCoupons = append(p.createdCoupons, d.ID)
	return "coupon_" + d.ID, nil
}

// ---- webhook repository ----

type fakeWebhookRepo struct {
	hooks []*domain.Webhook
	logs  []*domain.WebhookLog

	// events records the relative order of log writes and is appended to by
	// test HTTP handlers to assert log-before-deliver.
	events []string
}

func (r *fakeWebhookRepo) CreateWebhook(w *domain.Webhook) error {
	r.hooks = append(r.hooks, w)
	return nil
}

func (r *fakeWebhookRepo) GetWebhooksByEventType(eventType string) ([]*domain.Webhook, error) {
	var out []*domain.Webhook
	for _, h := range r.hooks {
		if h.SubscribedTo(eventType) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeWebhookRepo) CreateWebhookLog(l *domain.WebhookLog) error {
	r.logs = append(r.logs, l)
	r.events = append(r.events, "log")
	return nil
}

func (r *fakeWebhookRepo) ListWebhookLogs(webhookID string) ([]*domain.WebhookLog, error) {
	var out []*domain.WebhookLog
	for _, l := range r.logs {
		if l.WebhookID == webhookID {
			out = append(out, l)
		}
	}
	return out, nil
}
