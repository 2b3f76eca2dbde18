package utils

import (
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// NotifyOrderEvent posts an order event to the webhook configured in
// ORDER_WEBHOOK_URL. Fire and forget: it runs after the transaction has
// committed and a delivery failure is only logged, never surfaced.
func NotifyOrderEvent(event string, payload any) {
	webhookURL := os.Getenv("ORDER_WEBHOOK_URL")
	if webhookURL == "" {
		return
	}

	go func() {
		resp, err := resty.New().SetTimeout(10 * time.Second).
			R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]any{
				"event":     event,
				"data":      payload,
				"timestamp": time.Now().UTC(),
			}).
			Post(webhookURL)

		if err != nil {
			log.Printf("Order webhook error: %v", err)
			return
		}
		if resp.StatusCode() >= 300 {
			log.Printf("Order webhook returned status %d", resp.StatusCode())
		}
	}()
}
