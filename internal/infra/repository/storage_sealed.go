package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	repo "pedidos/internal/repository"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrSealedRecord = fmt.Errorf("%w: sealed record cannot be opened", repo.ErrCorruptRecord)

const nonceSize = 24

// 保存前に secretbox で暗号化する（トークンを平文で置かない）
type SealedStorage struct {
	inner repo.KeyValueStore
	key   [32]byte
}

func NewSealedStorage(inner repo.KeyValueStore, key []byte) (*SealedStorage, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("sealed storage key must be 32 bytes, got %d", len(key))
	}
	s := &SealedStorage{inner: inner}
	copy(s.key[:], key)
	return s, nil
}

func (s *SealedStorage) Get(ctx context.Context, key string) ([]byte, error) {
	box, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(box) < nonceSize {
		return nil, ErrSealedRecord
	}

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrSealedRecord
	}
	return plain, nil
}

func (s *SealedStorage) Put(ctx context.Context, key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return err
	}

	box := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.inner.Put(ctx, key, box)
}

func (s *SealedStorage) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
