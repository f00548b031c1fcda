package usecase

import (
	"context"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
)

// DeliveryStore は配送の一覧を持つ
type DeliveryStore struct {
	storeState

	deliveries repo.DeliveryRepository
	profiles   repo.ProfileRepository
	validator  InputValidator
	bus        *EventBus
	logger     *log.Logger

	list []model.Delivery
}

// DI
func NewDeliveryStore(
	deliveries repo.DeliveryRepository,
	profiles repo.ProfileRepository,
	validator InputValidator,
	bus *EventBus,
) *DeliveryStore {
	return &DeliveryStore{
		deliveries: deliveries,
		profiles:   profiles,
		validator:  validator,
		bus:        bus,
		logger:     log.New("deliveries"),
		list:       []model.Delivery{},
	}
}

// FetchAll は一覧を取り直す。失敗してもエラーにしない
func (s *DeliveryStore) FetchAll(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.fetch(ctx)
}

func (s *DeliveryStore) fetch(ctx context.Context) {
	s.begin()
	defer s.end()

	list, err := s.deliveries.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warnf("fetch deliveries: %v", err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	if list == nil {
		list = []model.Delivery{}
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
}

func (s *DeliveryStore) Create(ctx context.Context, in model.DeliveryInput) error {
	if in.Status == "" {
		in.Status = model.DeliveryStatusPendiente
	}

	var created model.Delivery
	err := s.run(ctx, "create the delivery", func() error {
		if err := s.validator.ValidateDeliveryInput(ctx, in); err != nil {
			return err
		}
		d, err := s.deliveries.Create(ctx, in)
		created = d
		return err
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionCreateDelivery, created.ID, in)
	return nil
}

// Update は送ったフィールドだけ変える（PATCH）
func (s *DeliveryStore) Update(ctx context.Context, id int64, patch model.DeliveryPatch) error {
	err := s.run(ctx, "update the delivery", func() error {
		if err := s.validator.ValidateDeliveryPatch(ctx, patch); err != nil {
			return err
		}
		_, err := s.deliveries.Update(ctx, id, patch)
		return err
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionUpdateDelivery, id, patch)
	return nil
}

func (s *DeliveryStore) Delete(ctx context.Context, id int64) error {
	err := s.run(ctx, "delete the delivery", func() error {
		return s.deliveries.Delete(ctx, id)
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionDeleteDelivery, id, nil)
	return nil
}

// ListEligibleCouriers は repartidor のプロフィール。失敗したら空（エラーにしない）
func (s *DeliveryStore) ListEligibleCouriers(ctx context.Context) []model.Profile {
	out, err := s.profiles.List(ctx, model.RoleRepartidor)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warnf("fetch couriers: %v", err)
		}
		return []model.Profile{}
	}
	if out == nil {
		return []model.Profile{}
	}
	return out
}

func (s *DeliveryStore) Deliveries() []model.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Delivery, len(s.list))
	copy(out, s.list)
	return out
}

// Reset はログアウト時に呼ばれる
func (s *DeliveryStore) Reset() {
	s.mu.Lock()
	s.list = []model.Delivery{}
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *DeliveryStore) audit(ctx context.Context, action model.AuditAction, id int64, payload interface{}) {
	s.bus.Publish(ctx, Event{Kind: EventAdminMutation, Mutation: Mutation{
		Action:       action,
		ResourceType: model.AuditResourceDelivery,
		ResourceID:   id,
		Payload:      payload,
	}})
}
