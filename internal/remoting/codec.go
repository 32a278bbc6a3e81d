package remoting

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName 编解码器名称，对应 content-type application/grpc+json。
const CodecName = "json"

// jsonCodec 以 JSON 承载消息，调用方需配合 grpc.CallContentSubtype(CodecName)。
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
