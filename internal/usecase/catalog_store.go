package usecase

import (
	"context"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
)

// CatalogStore は商品一覧を持つ（正はサーバー）
type CatalogStore struct {
	storeState

	products  repo.ProductRepository
	validator InputValidator
	bus       *EventBus
	logger    *log.Logger

	list []model.Product
}

// DI
func NewCatalogStore(products repo.ProductRepository, validator InputValidator, bus *EventBus) *CatalogStore {
	return &CatalogStore{
		products:  products,
		validator: validator,
		bus:       bus,
		logger:    log.New("catalog"),
		list:      []model.Product{},
	}
}

// FetchAll は一覧を取り直す。失敗してもエラーにしない（前の一覧のまま）
func (s *CatalogStore) FetchAll(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.fetch(ctx)
}

func (s *CatalogStore) fetch(ctx context.Context) {
	s.begin()
	defer s.end()

	list, err := s.products.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warnf("fetch products: %v", err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	if list == nil {
		list = []model.Product{}
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
}

func (s *CatalogStore) Create(ctx context.Context, in model.ProductInput) error {
	var created model.Product
	err := s.run(ctx, "create the product", func() error {
		if err := s.validator.ValidateProduct(ctx, in); err != nil {
			return err
		}
		p, err := s.products.Create(ctx, in)
		created = p
		return err
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionCreateProduct, created.ID, in)
	return nil
}

// Update は全項目の置き換え
func (s *CatalogStore) Update(ctx context.Context, id int64, in model.ProductInput) error {
	err := s.run(ctx, "update the product", func() error {
		if err := s.validator.ValidateProduct(ctx, in); err != nil {
			return err
		}
		_, err := s.products.Update(ctx, id, in)
		return err
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionUpdateProduct, id, in)
	return nil
}

func (s *CatalogStore) Delete(ctx context.Context, id int64) error {
	err := s.run(ctx, "delete the product", func() error {
		return s.products.Delete(ctx, id)
	}, s.fetch)
	if err != nil {
		return err
	}
	s.audit(ctx, model.AuditActionDeleteProduct, id, nil)
	return nil
}

// Find は一覧の中から探す（カート追加用）
func (s *CatalogStore) Find(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.list {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *CatalogStore) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.list))
	copy(out, s.list)
	return out
}

func (s *CatalogStore) audit(ctx context.Context, action model.AuditAction, id int64, payload interface{}) {
	s.bus.Publish(ctx, Event{Kind: EventAdminMutation, Mutation: Mutation{
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   id,
		Payload:      payload,
	}})
}
