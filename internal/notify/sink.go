package notify

import "context"

// Message is one finished artifact announced to the sink.
type Message struct {
	Caption  string
	Filename string
	MIMEType string
	Data     []byte
}

// Sink delivers finished media to a side channel. The contract is strictly
// best-effort: implementations log failures and never propagate them, never
// retry, and callers must not depend on delivery.
type Sink interface {
	Publish(ctx context.Context, msg Message)
}

// NopSink is used when no sink is configured.
type NopSink struct{}

func (NopSink) Publish(context.Context, Message) {}

var _ Sink = NopSink{}
