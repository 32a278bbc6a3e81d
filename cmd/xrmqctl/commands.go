package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xrocketmq/pkg/mq/xrocketmq"
	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
)

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// producer 命令使用的生产者能力。
type producer interface {
	Send(ctx context.Context, msg *xrocketmq.Message) (*xrocketmq.SendReceipt, error)
	Route(ctx context.Context, topic string) (*xrocketmq.TopicRouteData, error)
	Shutdown(ctx context.Context) error
}

// newProducer 测试中替换。
var newProducer = func(ctx context.Context, cfg xrocketmq.Config, logger *slog.Logger) (producer, error) {
	return xrocketmq.NewProducer(ctx, cfg, xrocketmq.WithLogger(logger))
}

func createSendCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "发送一条消息",
		ArgsUsage: "<body>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "topic", Usage: "目标 topic（必填）"},
			&cli.StringFlag{Name: "tag", Usage: "消息 tag"},
			&cli.StringSliceFlag{Name: "key", Usage: "消息 key，可重复"},
			&cli.StringFlag{Name: "group", Usage: "消息组（顺序消息）"},
			&cli.DurationFlag{Name: "delay", Usage: "延迟投递时长"},
			&cli.StringSliceFlag{Name: "property", Aliases: []string{"p"}, Usage: "用户属性 k=v，可重复"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			msg, err := buildMessage(cmd.String("topic"), cmd.Args().Slice(), cmd.String("tag"),
				cmd.StringSlice("key"), cmd.String("group"), cmd.Duration("delay"), cmd.StringSlice("property"))
			if err != nil {
				return err
			}
			return withProducer(ctx, cmd, func(ctx context.Context, p producer) error {
				return cmdSend(ctx, p, msg, out)
			})
		},
	}
}

func createRouteCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "route",
		Usage:     "查询 topic 路由",
		ArgsUsage: "<topic>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usagef("route 需要且只需要一个 topic 参数")
			}
			topic := cmd.Args().First()
			return withProducer(ctx, cmd, func(ctx context.Context, p producer) error {
				return cmdRoute(ctx, p, topic, out)
			})
		},
	}
}

// withProducer 读取配置、构建日志与生产者，执行 fn 后关闭。
func withProducer(ctx context.Context, cmd *cli.Command, fn func(context.Context, producer) error) error {
	path := cmd.String("config")
	if path == "" {
		return usagef("缺少 --config")
	}
	b := xlog.New().
		SetLevelString(cmd.String("log-level")).
		SetFormat(cmd.String("log-format"))
	if file := cmd.String("log-file"); file != "" {
		b = b.SetRotation(file, xlog.Rotation{})
	}
	logger, _, closeLog, err := b.Build()
	if err != nil {
		return usagef("%v", err)
	}
	defer func() { _ = closeLog() }()

	cfg, err := xrocketmq.LoadConfig(path, cmd.String("section"))
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()
	p, err := newProducer(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("创建生产者失败: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		_ = p.Shutdown(shutdownCtx)
	}()
	return fn(ctx, p)
}

// buildMessage 校验命令参数并组装消息。
func buildMessage(topic string, args []string, tag string, keys []string, group string, delay time.Duration, props []string) (*xrocketmq.Message, error) {
	if topic == "" {
		return nil, usagef("缺少 --topic")
	}
	if len(args) != 1 {
		return nil, usagef("send 需要且只需要一个消息体参数")
	}
	if group != "" && delay > 0 {
		return nil, usagef("--group 与 --delay 不能同时使用")
	}
	properties, err := parseProperties(props)
	if err != nil {
		return nil, err
	}
	msg := &xrocketmq.Message{
		Topic:        topic,
		Body:         []byte(args[0]),
		Tag:          tag,
		Keys:         keys,
		MessageGroup: group,
		Properties:   properties,
	}
	if delay > 0 {
		msg.DeliveryTimestamp = time.Now().Add(delay)
	}
	return msg, nil
}

// parseProperties 解析 k=v 列表，值可以包含 '='。
func parseProperties(kvs []string) (map[string]string, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, usagef("属性格式应为 k=v: %q", kv)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func cmdSend(ctx context.Context, p producer, msg *xrocketmq.Message, out io.Writer) error {
	receipt, err := p.Send(ctx, msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "message_id: %s\nqueue: %s\nendpoint: %s\noffset: %d\n",
		receipt.MessageID, receipt.Queue, receipt.Queue.Broker.Endpoints, receipt.Offset)
	return nil
}

func cmdRoute(ctx context.Context, p producer, topic string, out io.Writer) error {
	route, err := p.Route(ctx, topic)
	if err != nil {
		return err
	}
	queues := append([]xrocketmq.MessageQueue(nil), route.Queues...)
	sort.Slice(queues, func(i, j int) bool {
		if queues[i].Broker.Name != queues[j].Broker.Name {
			return queues[i].Broker.Name < queues[j].Broker.Name
		}
		return queues[i].ID < queues[j].ID
	})
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BROKER\tBROKER_ID\tQUEUE\tPERM\tENDPOINTS")
	for _, q := range queues {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", q.Broker.Name, q.Broker.ID, q.ID, q.Permission, q.Broker.Endpoints)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d queues, %d writable\n", len(route.Queues), len(route.Writable()))
	return nil
}
