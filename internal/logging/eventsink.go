package logging

import (
	"fmt"

	"github.com/dshills/cascade/internal/event"
)

// EventSink is an event subscriber that writes every event it receives to a
// Sink. Subscribe it to event.Root to log all traffic of an emitter.
type EventSink struct {
	sink  Sink
	topic string
	typ   MessageType
}

// NewEventSink creates an EventSink writing messages with the given topic.
func NewEventSink(sink Sink, topic string) *EventSink {
	return &EventSink{sink: sink, topic: topic, typ: TypeDebug}
}

// WithType returns a copy of s that writes messages of type t.
func (s *EventSink) WithType(t MessageType) *EventSink {
	c := *s
	c.typ = t
	return &c
}

// HandleEvent implements event.Handler.
func (s *EventSink) HandleEvent(e event.Event) error {
	msg := &Message{
		Type:  s.typ,
		Topic: s.topic,
		Text:  e.Kind().String(),
		Params: map[string]any{
			"handled": e.Handled(),
		},
	}
	if sender := e.Sender(); sender != nil {
		msg.From = fmt.Sprint(sender)
	}
	if e.HasBag() {
		msg.Params["bag"] = e.Bag()
	}
	s.sink.Write(msg)
	return nil
}

// String returns a name for diagnostics.
func (s *EventSink) String() string {
	return "sink:" + s.topic
}
