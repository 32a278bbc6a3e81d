// xrmqctl 是 xrocketmq 生产者的命令行工具，用于联调与排障。
//
// 用法:
//
//	xrmqctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config     配置文件路径（YAML/JSON，必填）
//	    --section    配置所在节点，如 "rocketmq"（默认: 根节点）
//	-t, --timeout    命令超时时间（默认: 10s）
//	    --log-level  日志级别 debug/info/warn/error（默认: warn）
//	    --log-format 日志格式 text/json（默认: text）
//	    --log-file   日志文件，按大小轮转（默认: stderr）
//
// 命令:
//
//	send <body>      发送一条消息
//	route <topic>    查询 topic 路由
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数错误
//
// 示例:
//
//	xrmqctl -c mq.yaml send --topic orders --tag TagA --key k1 hello
//	xrmqctl -c mq.yaml send --topic orders --group user-42 -p env=staging hello
//	xrmqctl -c mq.yaml --section rocketmq route orders
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

// defaultTimeout 默认超时时间。
const defaultTimeout = 10 * time.Second

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

// createApp 创建 CLI 应用，命令输出写入 out。
func createApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "xrmqctl",
		Usage:   "xrocketmq 生产者命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:  "section",
				Usage: "配置所在节点",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "命令超时时间",
				Value:   defaultTimeout,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 debug/info/warn/error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 text/json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，按大小轮转",
			},
		},
		Commands: []*cli.Command{
			createSendCommand(out),
			createRouteCommand(out),
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string, out io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	if err := createApp(out).Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// setupSignalHandler 第一次信号取消命令，第二次强制退出（130 = 128 + SIGINT）。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
