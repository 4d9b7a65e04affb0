package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hopebridge_backend/internal/config"
	"hopebridge_backend/pkg/logger"

	"go.uber.org/zap"
)

// MailRequest 托管邮件函数的请求体；模板内容由函数侧维护
type MailRequest struct {
	To       string                 `json:"to"`
	ToName   string                 `json:"toName"`
	Template string                 `json:"template"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// MailClient 邮件投递，由托管后端函数实现
type MailClient interface {
	Send(ctx context.Context, req *MailRequest) error
	// SendAsync 发后即忘：失败只记日志，不影响调用方
	SendAsync(req *MailRequest)
}

type httpMailClient struct {
	cfg        *config.MailConfig
	httpClient *http.Client
}

func NewMailClient(cfg *config.MailConfig) MailClient {
	return &httpMailClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *httpMailClient) Send(ctx context.Context, req *MailRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail function returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *httpMailClient) SendAsync(req *MailRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := c.Send(ctx, req); err != nil {
			logger.Log.Error("Failed to send mail",
				zap.String("to", req.To),
				zap.String("template", req.Template),
				zap.Error(err))
		}
	}()
}
