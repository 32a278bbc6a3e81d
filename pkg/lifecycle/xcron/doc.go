// Package xcron 提供进程内的周期任务调度。
//
// 基于 [robfig/cron/v3]，在其之上增加：
//   - 任务 ctx：绑定调度器生命周期，Stop 时取消，可选单次超时
//   - 重入保护：上一轮未结束时跳过本轮（cron.SkipIfStillRunning）
//   - 执行统计：执行/成功/失败/跳过次数与耗时
//   - slog 日志
//
// 用法：
//
//	s := xcron.New(xcron.WithLogger(logger))
//	_, err := s.Every("route-refresh", 30*time.Second, refresh, xcron.WithTimeout(10*time.Second))
//	s.Start()
//	defer s.Stop(ctx)
//
// [robfig/cron/v3]: https://github.com/robfig/cron
package xcron
