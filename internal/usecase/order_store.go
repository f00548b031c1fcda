package usecase

import (
	"context"
	"net/http"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
)

// IdentitySource はログイン中のIdentityを返す（SessionStore）
type IdentitySource interface {
	Current() (model.Identity, bool)
}

// 注文フォームの入力
type OrderMeta struct {
	ShippingAddress string            `json:"direccion_envio"`
	Status          model.OrderStatus `json:"estado"`
}

// OrderStore はログインユーザーの注文を持つ（絞り込みはサーバー）
type OrderStore struct {
	storeState

	orders    repo.OrderRepository
	session   IdentitySource
	validator InputValidator
	bus       *EventBus
	logger    *log.Logger

	list []model.Order
}

// DI
func NewOrderStore(orders repo.OrderRepository, session IdentitySource, validator InputValidator, bus *EventBus) *OrderStore {
	return &OrderStore{
		orders:    orders,
		session:   session,
		validator: validator,
		bus:       bus,
		logger:    log.New("orders"),
		list:      []model.Order{},
	}
}

// FetchAll は一覧を取り直す。失敗してもエラーにしない
func (s *OrderStore) FetchAll(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.fetch(ctx)
}

func (s *OrderStore) fetch(ctx context.Context) {
	s.begin()
	defer s.end()

	list, err := s.orders.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warnf("fetch orders: %v", err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	if list == nil {
		list = []model.Order{}
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
}

// Create はカートの中身と注文情報を1リクエストで送る。
// 未ログインと空カートは通信する前に失敗させる
func (s *OrderStore) Create(ctx context.Context, meta OrderMeta, lines []model.CartLine) error {
	identity, ok := s.session.Current()
	if !ok {
		return s.fail(NewUserError(http.StatusUnauthorized, "You must be logged in to place an order.", ErrAuthRequired))
	}
	if len(lines) == 0 {
		return s.fail(NewUserError(http.StatusBadRequest, "Your cart is empty.", ErrCartEmpty))
	}

	if meta.Status == "" {
		meta.Status = model.OrderStatusPendiente
	}

	var created model.Order
	err := s.run(ctx, "create the order", func() error {
		if err := s.validator.ValidateOrderMeta(ctx, meta); err != nil {
			return err
		}
		o, err := s.orders.CreateWithItems(ctx, buildDraft(identity, meta, lines))
		created = o
		return err
	}, s.fetch)
	if err != nil {
		s.logger.Errorf("create order for %s: %v", identity.Username, err)
		return err
	}

	s.logger.Infof("order %d created for %s", created.ID, identity.Username)
	s.bus.Publish(ctx, Event{Kind: EventOrderCreated, Order: created})
	return nil
}

// 合計は明細から計算する。在庫・価格の最終チェックはサーバー
func buildDraft(identity model.Identity, meta OrderMeta, lines []model.CartLine) model.OrderDraft {
	items := make([]model.OrderDraftItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderDraftItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return model.OrderDraft{
		Order: model.OrderHeader{
			ClienteID:       identity.ID,
			ShippingAddress: meta.ShippingAddress,
			Status:          meta.Status,
			Total:           linesTotal(lines),
		},
		Items: items,
	}
}

// UpdateStatus は estado だけ部分更新する
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	err := s.run(ctx, "update the order status", func() error {
		if err := s.validator.ValidateOrderStatus(ctx, status); err != nil {
			return err
		}
		return s.orders.UpdateStatus(ctx, id, status)
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionUpdateOrderStatus, id, map[string]model.OrderStatus{"estado": status})
	return nil
}

func (s *OrderStore) Delete(ctx context.Context, id int64) error {
	err := s.run(ctx, "delete the order", func() error {
		return s.orders.Delete(ctx, id)
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionDeleteOrder, id, nil)
	return nil
}

// Report は /api/pedidos/reporte/json/ を返す（一覧は変えない）
func (s *OrderStore) Report(ctx context.Context) ([]model.Order, error) {
	s.begin()
	defer s.end()

	out, err := s.orders.Report(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warnf("order report: %v", err)
		return nil, failure("load the order report", err)
	}
	if out == nil {
		out = []model.Order{}
	}
	return out, nil
}

func (s *OrderStore) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, len(s.list))
	copy(out, s.list)
	return out
}

// Reset はログアウト時に呼ばれる
func (s *OrderStore) Reset() {
	s.mu.Lock()
	s.list = []model.Order{}
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *OrderStore) audit(ctx context.Context, action model.AuditAction, id int64, payload interface{}) {
	s.bus.Publish(ctx, Event{Kind: EventAdminMutation, Mutation: Mutation{
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   id,
		Payload:      payload,
	}})
}
