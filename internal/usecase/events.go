package usecase

import (
	"context"
	"sync"

	"pedidos/internal/domain/model"
)

type EventKind string

const (
	// ログイン・ログアウト・セッション切れ
	EventSessionChanged EventKind = "session.changed"
	// 注文作成に成功
	EventOrderCreated EventKind = "order.created"
	// 管理操作（監査対象）
	EventAdminMutation EventKind = "admin.mutation"
)

type Event struct {
	Kind EventKind

	// EventSessionChanged
	Identity model.Identity
	LoggedIn bool

	// EventOrderCreated
	Order model.Order

	// EventAdminMutation
	Mutation Mutation
}

// Mutation は監査に残す管理操作
type Mutation struct {
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   int64
	Payload      interface{}
}

type Handler func(ctx context.Context, ev Event)

// EventBus は同期で配る。ハンドラは登録順に呼ばれる
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: map[EventKind][]Handler{}}
}

func (b *EventBus) Subscribe(kind EventKind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

func (b *EventBus) Publish(ctx context.Context, ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[ev.Kind]...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}
