package usecase_test

import (
	"context"
	"testing"

	"pedidos/internal/domain/model"
	infra "pedidos/internal/infra/repository"
	repo "pedidos/internal/repository"
	"pedidos/internal/usecase"
	"pedidos/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type TokenRepoMock struct{ mock.Mock }

func (m *TokenRepoMock) Obtain(ctx context.Context, username string, password string) (model.TokenPair, error) {
	args := m.Called(ctx, username, password)
	p, _ := args.Get(0).(model.TokenPair)
	return p, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, id int64, in model.ProductInput) (model.Product, error) {
	args := m.Called(ctx, id, in)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) CreateWithItems(ctx context.Context, draft model.OrderDraft) (model.Order, error) {
	args := m.Called(ctx, draft)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OrderRepoMock) Report(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

type DeliveryRepoMock struct{ mock.Mock }

func (m *DeliveryRepoMock) List(ctx context.Context) ([]model.Delivery, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Delivery)
	return items, args.Error(1)
}

func (m *DeliveryRepoMock) Create(ctx context.Context, in model.DeliveryInput) (model.Delivery, error) {
	args := m.Called(ctx, in)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) Update(ctx context.Context, id int64, patch model.DeliveryPatch) (model.Delivery, error) {
	args := m.Called(ctx, id, patch)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) List(ctx context.Context, role model.Role) ([]model.Profile, error) {
	args := m.Called(ctx, role)
	items, _ := args.Get(0).([]model.Profile)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) Load(ctx context.Context) ([]model.CartLine, error) {
	args := m.Called(ctx)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartRepoMock) Save(ctx context.Context, lines []model.CartLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

type AuditPublisherMock struct{ mock.Mock }

func (m *AuditPublisherMock) Publish(ctx context.Context, event model.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *AuditPublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ repo.TokenRepository    = (*TokenRepoMock)(nil)
	_ repo.ProductRepository  = (*ProductRepoMock)(nil)
	_ repo.OrderRepository    = (*OrderRepoMock)(nil)
	_ repo.DeliveryRepository = (*DeliveryRepoMock)(nil)
	_ repo.ProfileRepository  = (*ProfileRepoMock)(nil)
	_ repo.CartRepository     = (*CartRepoMock)(nil)
	_ repo.AuditPublisher     = (*AuditPublisherMock)(nil)
)

// 固定のIdentity（ログイン済み扱い）
type staticSession struct {
	identity model.Identity
	ok       bool
}

func (s staticSession) Current() (model.Identity, bool) {
	return s.identity, s.ok
}

// =====================
// helper
// =====================

// 署名はクライアントで検証しないので鍵は何でもよい
func mustMakeJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func newValidator() usecase.InputValidator {
	return validator.NewInputValidator()
}

func newMemoryIdentities() *infra.IdentityStorageRepository {
	return infra.NewIdentityStorageRepository(infra.NewStorageMemoryRepository())
}

func newMemoryCart() *infra.CartStorageRepository {
	return infra.NewCartStorageRepository(infra.NewStorageMemoryRepository())
}
