package xconf

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 在每次重载后调用，err 非 nil 表示重载失败（旧配置仍然有效）。
type WatchCallback func(cfg *Config, err error)

// WatchOption 监听配置选项。
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监听配置文件所在目录，目标文件变化时防抖重载。
//
// 监听目录而非文件本身：编辑器与 K8s ConfigMap 常以 rename 方式原子替换文件，
// 直接监听文件会在第一次替换后丢失后续事件。
type Watcher struct {
	cfg      *Config
	fsw      *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	stopErr  error
}

// Watch 创建并启动监听。调用方负责 Stop。
func Watch(cfg *Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.path == "" {
		return nil, ErrNotReloadable
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("xconf: watch directory %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		callback: callback,
		debounce: 100 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Stop 停止监听并等待后台 goroutine 退出。可重复调用。
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.cancel()
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
		w.stopErr = w.fsw.Close()
		w.wg.Wait()
	})
	return w.stopErr
}

func (w *Watcher) run() {
	defer w.wg.Done()
	name := filepath.Base(w.cfg.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && isUpdate(ev) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.notify(fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// isUpdate 只关心可能代表内容更新的事件：直接写入、新建与原子 rename。
func isUpdate(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		w.notify(w.cfg.Reload())
	})
}

func (w *Watcher) notify(err error) {
	if w.callback != nil {
		w.callback(w.cfg, err)
	}
}
