package xrocketmq

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/omeyang/xrocketmq/pkg/util/xid"
)

// clientIndex 进程内客户端序号。
var clientIndex atomic.Int64

// newClientID 生成 hostname@pid@index@suffix 形式的客户端标识。
//
// 同一进程内的多个客户端靠 index 区分，suffix 避免进程重启后复用。
func newClientID(gen *xid.Generator) (string, error) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	suffix, err := gen.NewString()
	if err != nil {
		return "", fmt.Errorf("xrocketmq: client id: %w", err)
	}
	idx := clientIndex.Add(1) - 1
	return host + "@" + strconv.Itoa(os.Getpid()) + "@" + strconv.FormatInt(idx, 10) + "@" + suffix, nil
}

// newMessageID 生成消息 ID：版本前缀 01 加 16 位十六进制。
func newMessageID(gen *xid.Generator) (string, error) {
	id, err := gen.New()
	if err != nil {
		return "", fmt.Errorf("xrocketmq: message id: %w", err)
	}
	return fmt.Sprintf("01%016X", uint64(id)), nil
}
