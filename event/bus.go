package event

import "context"

// Bus receives lifecycle events from the engine. Publish is
// fire-and-forget: the engine ignores errors, never retries, and never
// buffers on behalf of the bus. Implementations must not block the
// publishing goroutine.
type Bus interface {
	Publish(ctx context.Context, evt *Event) error
}

// NopBus discards every event.
type NopBus struct{}

// Publish implements Bus.
func (NopBus) Publish(_ context.Context, _ *Event) error { return nil }

// ChannelBus delivers events on a buffered channel. When the buffer is
// full the event is dropped, honoring the no-delivery-guarantee contract
// without blocking the engine.
type ChannelBus struct {
	ch chan *Event
}

// NewChannelBus creates a ChannelBus with the given buffer size.
func NewChannelBus(size int) *ChannelBus {
	return &ChannelBus{ch: make(chan *Event, size)}
}

// Publish implements Bus.
func (b *ChannelBus) Publish(_ context.Context, evt *Event) error {
	select {
	case b.ch <- evt:
	default:
		// Buffer full: drop. Delivery is best-effort.
	}
	return nil
}

// Events returns the receive side of the bus.
func (b *ChannelBus) Events() <-chan *Event { return b.ch }
