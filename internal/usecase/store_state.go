package usecase

import (
	"context"
	"sync"
)

// storeState は各ストア共通の状態。
//   - opMu: 取得・更新・再取得を1本ずつ流す
//   - mu: 一覧などの保持データ（ビューからの読み取りは並行で良い）
type storeState struct {
	opMu sync.Mutex

	mu      sync.RWMutex
	loading int
	errMsg  string
}

func (s *storeState) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *storeState) end() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

// Loading は処理中なら true
func (s *storeState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Err は直近の失敗メッセージ（無ければ空）
func (s *storeState) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *storeState) SetErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// fail は失敗メッセージを残してそのまま返す
func (s *storeState) fail(err error) error {
	if ue, ok := AsUserError(err); ok {
		s.SetErr(ue.Message)
	} else {
		s.SetErr(err.Error())
	}
	return err
}

// run は更新してから再取得する（更新に失敗したら再取得しない、一覧はそのまま）。
// 再取得の失敗はログだけ
func (s *storeState) run(ctx context.Context, what string, call func() error, resync func(context.Context)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.begin()
	defer s.end()

	s.SetErr("")
	if err := call(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.fail(failure(what, err))
	}
	resync(ctx)
	return nil
}
