package logging

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MessageType classifies a log message.
type MessageType string

// Message types, from least to most severe.
const (
	TypeDebug    MessageType = "debug"
	TypeTrace    MessageType = "trace"
	TypeInfo     MessageType = "info"
	TypeWarning  MessageType = "warning"
	TypeError    MessageType = "error"
	TypeCritical MessageType = "critical"
)

// Message is a log record written to a Sink.
type Message struct {
	GUID   string         `json:"guid"`
	Time   time.Time      `json:"time"`
	Type   MessageType    `json:"type"`
	Topic  string         `json:"topic,omitempty"`
	From   string         `json:"from,omitempty"`
	Text   string         `json:"text"`
	Params map[string]any `json:"params,omitempty"`
}

// Sink consumes log messages. Write normalizes msg and returns its GUID.
type Sink interface {
	Write(msg *Message) string
}

// Normalize fills the fields a writer may leave empty: a v7 UUID for GUID,
// the current time and TypeInfo. A nil message becomes an empty info message.
func Normalize(msg *Message) *Message {
	if msg == nil {
		msg = &Message{}
	}
	if msg.GUID == "" {
		msg.GUID = uuid.Must(uuid.NewV7()).String()
	}
	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}
	if msg.Type == "" {
		msg.Type = TypeInfo
	}
	return msg
}

// reservedFields are set by ConsoleSink itself. Params with these names are
// logged as "param.<name>".
var reservedFields = map[string]bool{
	"app":   true,
	"sink":  true,
	"guid":  true,
	"topic": true,
	"from":  true,
}

// ConsoleSink writes messages through a logrus logger.
type ConsoleSink struct {
	logger logrus.FieldLogger
	app    string
}

// NewConsoleSink creates a sink that logs on behalf of app.
func NewConsoleSink(logger logrus.FieldLogger, app string) *ConsoleSink {
	return &ConsoleSink{logger: logger, app: app}
}

// Write logs msg at the level matching its type and returns its GUID.
func (s *ConsoleSink) Write(msg *Message) string {
	msg = Normalize(msg)

	fields := logrus.Fields{
		"app":  s.app,
		"sink": "console",
		"guid": msg.GUID,
	}
	if msg.Topic != "" {
		fields["topic"] = msg.Topic
	}
	if msg.From != "" {
		fields["from"] = msg.From
	}
	for k, v := range msg.Params {
		if _, reserved := fields[k]; reserved || reservedFields[k] {
			k = "param." + k
		}
		fields[k] = v
	}

	entry := s.logger.WithFields(fields).WithTime(msg.Time)
	entry.Log(levelOf(msg.Type), msg.Text)
	return msg.GUID
}

// levelOf maps a message type to a logrus level.
func levelOf(t MessageType) logrus.Level {
	switch t {
	case TypeDebug:
		return logrus.DebugLevel
	case TypeTrace:
		return logrus.TraceLevel
	case TypeWarning:
		return logrus.WarnLevel
	case TypeError:
		return logrus.ErrorLevel
	case TypeCritical:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
