package repository

import (
	"context"
	"errors"
)

// 保存はあるが読めない（壊れたJSON、鍵が変わった暗号化レコードなど）
var ErrCorruptRecord = errors.New("corrupt stored record")

// 端末側ストレージ（localStorage相当）。無いkeyは ErrNotFound
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
