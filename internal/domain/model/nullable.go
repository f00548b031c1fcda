package model

import (
	"bytes"
	"encoding/json"
)

// Nullable はPATCHで「送らない」と「nullを送る」を区別する。
// Set=false なら送らない（omitzero）、Set=true で Value=nil なら null
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func (n Nullable[T]) IsZero() bool {
	return !n.Set
}

func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// キーがあれば null でも Set になる
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
