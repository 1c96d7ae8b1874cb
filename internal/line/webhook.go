package line

import "encoding/json"

// WebhookEvent is the subset of the platform's webhook event payload the bot
// inspects. Message replies are intentionally inert; events are only logged.
type WebhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken,omitempty"`
	Message    struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

type webhookBody struct {
	Events []WebhookEvent `json:"events"`
}

// ParseWebhookBody decodes the events of a verified webhook request body.
func ParseWebhookBody(body []byte) ([]WebhookEvent, error) {
	var b webhookBody
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, err
	}
	return b.Events, nil
}
