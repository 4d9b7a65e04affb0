package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hopebridge_backend/internal/config"
)

// PaymentIntentRequest 托管支付函数的请求体：金额为最小货币单位
type PaymentIntentRequest struct {
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	PayerName  string            `json:"payerName"`
	PayerEmail string            `json:"payerEmail"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type PaymentIntentResponse struct {
	PaymentID    string `json:"paymentId"`
	ClientSecret string `json:"clientSecret"`
}

// PaymentClient 支付意图创建，由托管后端函数实现
type PaymentClient interface {
	CreateIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error)
}

type httpPaymentClient struct {
	cfg        *config.PaymentConfig
	httpClient *http.Client
}

func NewPaymentClient(cfg *config.PaymentConfig) PaymentClient {
	return &httpPaymentClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *httpPaymentClient) CreateIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	if req.Currency == "" {
		req.Currency = c.cfg.Currency
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.IntentURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment intent function returned status %d", resp.StatusCode)
	}

	var intent PaymentIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	if intent.PaymentID == "" {
		return nil, fmt.Errorf("payment intent function returned empty payment id")
	}

	return &intent, nil
}
