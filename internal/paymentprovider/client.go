package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client charges saved payment methods through the Stripe API.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Stripe client from an API secret key.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type paymentIntentResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// Charge creates and confirms a payment intent against the customer's
// default payment method. A declined card comes back as a non-succeeded
// result, not as an error.
func (c *Client) Charge(ctx context.Context, reqParams ChargeRequest) (*ChargeResult, error) {
	const op = "paymentprovider.Charge"

	currency := reqParams.Currency
	if currency == "" {
		currency = "usd"
	}
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", int64(reqParams.Amount*100)))
	form.Set("currency", currency)
	form.Set("customer", reqParams.CustomerID)
	form.Set("description", reqParams.Description)
	form.Set("confirm", "true")
	form.Set("off_session", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var intent paymentIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ChargeResult{
		Succeeded: intent.Status == "succeeded",
		PaymentID: intent.ID,
	}
	if !result.Succeeded {
		result.ErrorMessage = "charge was not completed"
		if intent.LastPaymentError != nil {
			result.ErrorMessage = intent.LastPaymentError.Message
		}
	}
	return result, nil
}
