package usecase

import (
	"context"
	"errors"
	"fmt"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// CartStore は注文前の明細を持つ。変更のたびに丸ごと保存する
type CartStore struct {
	storeState

	carts  repo.CartRepository
	logger *log.Logger

	lines []model.CartLine
}

// DI
func NewCartStore(carts repo.CartRepository) *CartStore {
	return &CartStore{
		carts:  carts,
		logger: log.New("cart"),
	}
}

// Add は同じ商品なら数量を足す（行は増やさない）
func (s *CartStore) Add(ctx context.Context, p model.Product, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		for i := range lines {
			if lines[i].ProductID == p.ID {
				lines[i].Quantity += quantity
				return lines, nil
			}
		}
		return append(lines, model.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  quantity,
		}), nil
	})
}

// SetQuantity は数量を置き換える。0以下は削除と同じ
func (s *CartStore) SetQuantity(ctx context.Context, productID int64, quantity int64) error {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		i := indexOf(lines, productID)
		if i < 0 {
			return nil, ErrLineNotFound
		}
		if quantity <= 0 {
			return append(lines[:i], lines[i+1:]...), nil
		}
		lines[i].Quantity = quantity
		return lines, nil
	})
}

// Remove はカートに無い商品でもエラーにしない
func (s *CartStore) Remove(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		if i := indexOf(lines, productID); i >= 0 {
			return append(lines[:i], lines[i+1:]...), nil
		}
		return lines, nil
	})
}

// Clear は注文確定後にも呼ばれる
func (s *CartStore) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		return []model.CartLine{}, nil
	})
}

// 変更してから保存する。保存に失敗しても変更は残す
func (s *CartStore) mutate(ctx context.Context, fn func([]model.CartLine) ([]model.CartLine, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	next, err := fn(cloneLines(s.lines))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lines = next
	snapshot := cloneLines(next)
	s.mu.Unlock()

	if err := s.carts.Save(ctx, snapshot); err != nil {
		s.logger.Errorf("save cart: %v", err)
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Restore は起動時に保存済みのカートを読み込む
func (s *CartStore) Restore(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	lines, err := s.carts.Load(ctx)
	if errors.Is(err, repo.ErrCorruptRecord) {
		//読めないカートは捨てて空から
		s.logger.Warnf("discarding stored cart: %v", err)
		if err := s.carts.Save(ctx, []model.CartLine{}); err != nil {
			s.logger.Errorf("save cart: %v", err)
		}
		lines = nil
		err = nil
	}
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}

	//数量0以下と重複は読み込み時に正す
	merged := make([]model.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := indexOf(merged, l.ProductID); i >= 0 {
			merged[i].Quantity += l.Quantity
			continue
		}
		merged = append(merged, l)
	}

	s.mu.Lock()
	s.lines = merged
	s.mu.Unlock()
	return nil
}

func (s *CartStore) Lines() []model.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLines(s.lines)
}

// Total は毎回計算する
func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return linesTotal(s.lines)
}

// ItemCount は数量の合計
func (s *CartStore) ItemCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func linesTotal(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func indexOf(lines []model.CartLine, productID int64) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}
