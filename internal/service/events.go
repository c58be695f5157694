package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
)

const (
	TopicUserEvents    = "user_events"
	TopicCartEvents    = "cart_events"
	TopicOrderEvents   = "order_events"
	TopicProductEvents = "product_events"
)

const publishTimeout = 5 * time.Second

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish is best effort: the write has already committed, so a broker
// failure is logged and swallowed.
func publish(ctx context.Context, p Publisher, topic string, key uint, event map[string]any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishEvent(pctx, topic, strconv.FormatUint(uint64(key), 10), event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
