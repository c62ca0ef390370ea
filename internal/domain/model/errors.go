package model

import "errors"

var (
	// ErrNotFound 該当するサンプル・チェックポイント・カップルが存在しない
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable メンバーの位置情報がまだ揃っていない
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidInput 座標や日付の形式が不正
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable 永続化層の障害
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError 入力フィールド単位の検証エラー。errors.Is で ErrInvalidInput と一致する
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}
