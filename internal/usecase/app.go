package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// App が使うリポジトリ一式
type Deps struct {
	Tokens     repo.TokenRepository
	Identities repo.IdentityRepository
	Carts      repo.CartRepository
	Products   repo.ProductRepository
	Orders     repo.OrderRepository
	Deliveries repo.DeliveryRepository
	Profiles   repo.ProfileRepository
	Audit      repo.AuditPublisher
	Validator  InputValidator
}

// App は全ストアを持ち、ストア間の連動（ログイン時の再取得など）をまとめる
type App struct {
	Bus        *EventBus
	Session    *SessionStore
	Cart       *CartStore
	Catalog    *CatalogStore
	Orders     *OrderStore
	Deliveries *DeliveryStore
	Profiles   *ProfileStore

	audit  repo.AuditPublisher
	logger *log.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// DI
func NewApp(d Deps) *App {
	bus := NewEventBus()
	session := NewSessionStore(d.Tokens, d.Identities, d.Validator, bus)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Bus:        bus,
		Session:    session,
		Cart:       NewCartStore(d.Carts),
		Catalog:    NewCatalogStore(d.Products, d.Validator, bus),
		Orders:     NewOrderStore(d.Orders, session, d.Validator, bus),
		Deliveries: NewDeliveryStore(d.Deliveries, d.Profiles, d.Validator, bus),
		Profiles:   NewProfileStore(d.Profiles),
		audit:      d.Audit,
		logger:     log.New("app"),
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}

	bus.Subscribe(EventSessionChanged, a.onSessionChanged)
	bus.Subscribe(EventOrderCreated, a.onOrderCreated)
	bus.Subscribe(EventAdminMutation, a.onAdminMutation)
	return a
}

// Start は保存済みのセッションとカートを読み込み、ログイン済みなら一覧を取る
func (a *App) Start(ctx context.Context) error {
	if err := a.Session.Restore(ctx); err != nil {
		return err
	}
	if err := a.Cart.Restore(ctx); err != nil {
		return err
	}

	if _, ok := a.Session.Current(); ok {
		a.fetchDependents(ctx)
	}
	a.logger.Info("app started")
	return nil
}

// Context はアプリの寿命。Close で終わる
func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) Close() error {
	a.cancel()
	if a.audit == nil {
		return nil
	}
	if err := a.audit.Close(); err != nil {
		return fmt.Errorf("close audit publisher: %w", err)
	}
	return nil
}

func (a *App) fetchDependents(ctx context.Context) {
	a.Catalog.FetchAll(ctx)
	a.Orders.FetchAll(ctx)
	a.Deliveries.FetchAll(ctx)
}

// ログイン: 一覧を取り直す / ログアウト: 一覧を空にする
func (a *App) onSessionChanged(ctx context.Context, ev Event) {
	if ev.LoggedIn {
		a.fetchDependents(ctx)
		return
	}
	a.Orders.Reset()
	a.Deliveries.Reset()
	a.Profiles.Reset()
}

// 注文できたらカートを空にする
func (a *App) onOrderCreated(ctx context.Context, ev Event) {
	if err := a.Cart.Clear(ctx); err != nil {
		a.logger.Errorf("clear cart after order %d: %v", ev.Order.ID, err)
	}
}

// 監査イベントを送る。送れなくても操作自体は成功のまま
func (a *App) onAdminMutation(ctx context.Context, ev Event) {
	if a.audit == nil {
		return
	}

	event, err := a.auditEvent(ev.Mutation)
	if err != nil {
		a.logger.Errorf("build audit event: %v", err)
		return
	}
	if err := a.audit.Publish(ctx, event); err != nil {
		a.logger.Errorf("publish audit event %s: %v", event.ID, err)
	}
}

func (a *App) auditEvent(m Mutation) (model.AuditEvent, error) {
	var actorID int64
	if identity, ok := a.Session.Current(); ok {
		actorID = identity.ID
	}

	payload := ""
	if m.Payload != nil {
		b, err := json.Marshal(m.Payload)
		if err != nil {
			return model.AuditEvent{}, err
		}
		payload = string(b)
	}

	return model.AuditEvent{
		ID:           uuid.NewString(),
		ActorUserID:  actorID,
		Action:       m.Action,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		PayloadJSON:  payload,
		CreatedAt:    a.now().UTC(),
	}, nil
}
