package remoting

import "time"

// 服务与方法名。
const (
	ServiceName = "apache.rocketmq.v2.MessagingService"

	MethodQueryRoute              = "/" + ServiceName + "/QueryRoute"
	MethodSendMessage             = "/" + ServiceName + "/SendMessage"
	MethodHeartbeat               = "/" + ServiceName + "/Heartbeat"
	MethodNotifyClientTermination = "/" + ServiceName + "/NotifyClientTermination"
)

// Code 服务端业务状态码。
type Code int32

// 状态码取值与服务端协议一致。
const (
	CodeOK                           Code = 20000
	CodeMultipleResults              Code = 30000
	CodeBadRequest                   Code = 40000
	CodeIllegalAccessPoint           Code = 40001
	CodeIllegalTopic                 Code = 40002
	CodeIllegalConsumerGroup         Code = 40003
	CodeIllegalMessageTag            Code = 40004
	CodeIllegalMessageKey            Code = 40005
	CodeIllegalMessageGroup          Code = 40006
	CodeIllegalMessagePropertyKey    Code = 40007
	CodeInvalidTransactionID         Code = 40008
	CodeIllegalMessageID             Code = 40009
	CodeIllegalFilterExpression      Code = 40010
	CodeIllegalInvisibleTime         Code = 40011
	CodeIllegalDeliveryTime          Code = 40012
	CodeInvalidReceiptHandle         Code = 40013
	CodeMessagePropertyConflict      Code = 40014
	CodeUnrecognizedClientType       Code = 40015
	CodeMessageCorrupted             Code = 40016
	CodeClientIDRequired             Code = 40017
	CodeIllegalPollingTime           Code = 40018
	CodeUnauthorized                 Code = 40100
	CodePaymentRequired              Code = 40200
	CodeForbidden                    Code = 40300
	CodeNotFound                     Code = 40400
	CodeMessageNotFound              Code = 40401
	CodeTopicNotFound                Code = 40402
	CodeConsumerGroupNotFound        Code = 40403
	CodeRequestTimeout               Code = 40800
	CodePayloadTooLarge              Code = 41300
	CodeMessageBodyTooLarge          Code = 41301
	CodePreconditionFailed           Code = 42800
	CodeTooManyRequests              Code = 42900
	CodeRequestHeaderTooLarge        Code = 43100
	CodeMessagePropertiesTooLarge    Code = 43101
	CodeInternalError                Code = 50000
	CodeInternalServerError          Code = 50001
	CodeHANotAvailable               Code = 50002
	CodeNotImplemented               Code = 50100
	CodeProxyTimeout                 Code = 50400
	CodeMasterPersistenceTimeout     Code = 50401
	CodeSlavePersistenceTimeout      Code = 50402
	CodeUnsupported                  Code = 50500
	CodeVersionUnsupported           Code = 50501
	CodeVerifyFIFOMessageUnsupported Code = 50502
	CodeFailedToConsumeMessage       Code = 60000
)

// Status 响应状态。
type Status struct {
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
}

// Resource 带命名空间的资源名。
type Resource struct {
	Namespace string `json:"resource_namespace,omitempty"`
	Name      string `json:"name"`
}

// Address 单个地址。
type Address struct {
	Host string `json:"host"`
	Port int32  `json:"port"`
}

// Endpoints 一组等价地址。
type Endpoints struct {
	Scheme    string    `json:"scheme,omitempty"`
	Addresses []Address `json:"addresses"`
}

// Broker 服务端节点。
type Broker struct {
	Name      string     `json:"name"`
	ID        int32      `json:"id"`
	Endpoints *Endpoints `json:"endpoints,omitempty"`
}

// Permission 队列权限。
type Permission int32

// 队列权限取值。
const (
	PermissionUnspecified Permission = iota
	PermissionNone
	PermissionRead
	PermissionWrite
	PermissionReadWrite
)

// MessageQueue 路由中的一个队列。
type MessageQueue struct {
	Topic      Resource   `json:"topic"`
	ID         int32      `json:"id"`
	Permission Permission `json:"permission"`
	Broker     *Broker    `json:"broker,omitempty"`
}

// QueryRouteRequest 查询路由。
type QueryRouteRequest struct {
	Topic     Resource   `json:"topic"`
	Endpoints *Endpoints `json:"endpoints,omitempty"`
}

// QueryRouteResponse 路由结果。
type QueryRouteResponse struct {
	Status        Status         `json:"status"`
	MessageQueues []MessageQueue `json:"message_queues"`
}

// SystemProperties 客户端填写的系统属性。
type SystemProperties struct {
	Tag               string     `json:"tag,omitempty"`
	Keys              []string   `json:"keys,omitempty"`
	MessageID         string     `json:"message_id"`
	MessageType       string     `json:"message_type"`
	BornTimestamp     time.Time  `json:"born_timestamp"`
	BornHost          string     `json:"born_host"`
	MessageGroup      string     `json:"message_group,omitempty"`
	DeliveryTimestamp *time.Time `json:"delivery_timestamp,omitempty"`
	QueueID           int32      `json:"queue_id"`
}

// Message 线上消息。
type Message struct {
	Topic            Resource          `json:"topic"`
	UserProperties   map[string]string `json:"user_properties,omitempty"`
	SystemProperties SystemProperties  `json:"system_properties"`
	Body             []byte            `json:"body"`
}

// SendMessageRequest 发送请求。
type SendMessageRequest struct {
	Messages []Message `json:"messages"`
}

// SendResultEntry 单条消息的发送结果。
type SendResultEntry struct {
	Status        Status `json:"status"`
	MessageID     string `json:"message_id"`
	TransactionID string `json:"transaction_id,omitempty"`
	Offset        int64  `json:"offset"`
}

// SendMessageResponse 发送响应。
type SendMessageResponse struct {
	Status  Status            `json:"status"`
	Entries []SendResultEntry `json:"entries"`
}

// ClientType 客户端类型。
type ClientType int32

// ClientTypeProducer 生产者。
const ClientTypeProducer ClientType = 1

// HeartbeatRequest 心跳。
type HeartbeatRequest struct {
	Group      *Resource  `json:"group,omitempty"`
	ClientType ClientType `json:"client_type"`
}

// HeartbeatResponse 心跳响应。
type HeartbeatResponse struct {
	Status Status `json:"status"`
}

// NotifyClientTerminationRequest 客户端下线通知。
type NotifyClientTerminationRequest struct {
	Group *Resource `json:"group,omitempty"`
}

// NotifyClientTerminationResponse 下线通知响应。
type NotifyClientTerminationResponse struct {
	Status Status `json:"status"`
}
