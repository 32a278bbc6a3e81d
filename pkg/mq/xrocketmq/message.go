package xrocketmq

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMaxBodySize 默认消息体上限 4 MiB。
const DefaultMaxBodySize = 4 << 20

// Message 待发送的消息。
type Message struct {
	Topic string
	Body  []byte

	// Tag 单个标签，不能包含 "|"。
	Tag string
	// Keys 业务索引键。
	Keys []string
	// MessageGroup 非空时为顺序消息，同组消息固定起始队列。
	MessageGroup string
	// DeliveryTimestamp 非零时为定时消息。
	DeliveryTimestamp time.Time
	// Properties 用户属性。发送时会复制一份再写入追踪信息，不修改调用方的 map。
	Properties map[string]string
}

// validate 在任何 RPC 之前执行。
func (m *Message) validate(maxBodySize int) error {
	switch {
	case m == nil:
		return fmt.Errorf("%w: nil message", ErrInvalidMessage)
	case strings.TrimSpace(m.Topic) == "":
		return fmt.Errorf("%w: empty topic", ErrInvalidMessage)
	case len(m.Body) == 0:
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	case maxBodySize > 0 && len(m.Body) > maxBodySize:
		return fmt.Errorf("%w: body size %d exceeds %d", ErrInvalidMessage, len(m.Body), maxBodySize)
	case strings.Contains(m.Tag, "|"):
		return fmt.Errorf("%w: tag %q contains '|'", ErrInvalidMessage, m.Tag)
	case m.MessageGroup != "" && !m.DeliveryTimestamp.IsZero():
		return fmt.Errorf("%w: message group and delivery timestamp are mutually exclusive", ErrInvalidMessage)
	}
	for k := range m.Properties {
		if k == "" {
			return fmt.Errorf("%w: empty property key", ErrInvalidMessage)
		}
	}
	return nil
}

// messageType 服务端识别的消息类型。
func (m *Message) messageType() string {
	switch {
	case m.MessageGroup != "":
		return "FIFO"
	case !m.DeliveryTimestamp.IsZero():
		return "DELAY"
	default:
		return "NORMAL"
	}
}
