package models

import (
	"bytes"
	"encoding/json"
)

// Optional はJSONフィールドの「未指定 / null / 値あり」を区別します。
type Optional[T any] struct {
	Set   bool // フィールドがJSONに存在した
	Null  bool // 値が null だった
	Value T
}

// Some は値ありの Optional を返します。
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null は null が指定された Optional を返します。
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON はフィールドが存在したときだけ呼ばれるため、ここで Set を立てます。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON は未指定と null をどちらも null として出力します。
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
