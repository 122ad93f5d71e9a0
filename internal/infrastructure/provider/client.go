package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/craftplace/settlement-service/internal/config"
	"github.com/craftplace/settlement-service/internal/domain"
)

// HTTPProviderClient implements domain.ProviderPort against the payment
// processor's REST API. Every call is a single request bounded by the
// configured timeout; a timeout is a failure, never an implicit success.
type HTTPProviderClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProviderClient(cfg config.PaymentProvider) *HTTPProviderClient {
	return &HTTPProviderClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type priceRequest struct {
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Recurring  bool   `json:"recurring"`
}

type couponRequest struct {
	Name       string `json:"name"`
	AmountOff  *int64 `json:"amount_off,omitempty"`
	PercentOff *int64 `json:"percent_off,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPProviderClient) CreateProduct(ctx context.Context, p *domain.Product) (string, error) {
	return c.postForID(ctx, "/v1/products", productRequest{
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	})
}

func (c *HTTPProviderClient) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/products/%s", p.ExternalID), productRequest{
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}, nil)
}

func (c *HTTPProviderClient) DeleteProduct(ctx context.Context, externalID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/products/%s", externalID), nil, nil)
}

func (c *HTTPProviderClient) CreatePrice(ctx context.Context, pr *domain.Price) (string, error) {
	return c.postForID(ctx, "/v1/prices", priceRequest{
		Product:    pr.ProductID,
		UnitAmount: pr.UnitAmount,
		Currency:   pr.Currency,
		Recurring:  pr.Recurring,
	})
}

func (c *HTTPProviderClient) UpdatePrice(ctx context.Context, pr *domain.Price) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/prices/%s", pr.ExternalID), priceRequest{
		Product:    pr.ProductID,
		UnitAmount: pr.UnitAmount,
		Currency:   pr.Currency,
		Recurring:  pr.Recurring,
	}, nil)
}

func (c *HTTPProviderClient) DeletePrice(ctx context.Context, externalID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/prices/%s", externalID), nil, nil)
}

func (c *HTTPProviderClient) CreateCoupon(ctx context.Context, d *domain.Discount) (string, error) {
	req := couponRequest{Name: d.Code}
	if d.Mode == domain.ModePercentage {
		v := d.Value
		req.PercentOff = &v
	} else {
		v := d.Value
		req.AmountOff = &v
	}
	return c.postForID(ctx, "/v1/coupons", req)
}

func (c *HTTPProviderClient) postForID(ctx context.Context, path string, body interface{}) (string, error) {
	var out idResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *HTTPProviderClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider call %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out != nil {
			return json.Unmarshal(responseBody, out)
		}
		return nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBody, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("provider call %s %s returned status %d", method, path, response.StatusCode)
	}
	return errors.New(errResp.Error)
}
