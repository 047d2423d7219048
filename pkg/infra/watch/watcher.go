// 指示: miu200521358
// Package watch は入力ファイルの変更を監視する。
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DEFAULT_DEBOUNCE は同じファイルの連続イベントをまとめる間隔。
const DEFAULT_DEBOUNCE = 200 * time.Millisecond

// Watcher は指定ファイルの変更を Events へ通知する。
// エディターの置き換え保存に追従するため、ファイルではなく親フォルダーを監視する。
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher は files の変更を監視するWatcherを生成する。
func NewWatcher(debounce time.Duration, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("監視対象ファイルがありません")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "ファイル監視の開始に失敗しました")
	}

	watched := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, file := range files {
		if file == "" {
			continue
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = w.Close()
			return nil, errors.Wrapf(err, "監視対象パスの解決に失敗しました: %s", file)
		}
		watched[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, errors.Wrapf(err, "監視対象フォルダーの登録に失敗しました: %s", dir)
		}
		dirs[dir] = struct{}{}
	}

	watcher := &Watcher{
		watcher:  w,
		files:    watched,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close は監視を終了する。Events と Errors は閉じられる。
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// run はfsnotifyのイベントを監視対象だけに絞り込んで転送する。
func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[name]; !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[name] = now
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}
