package service

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindStockConflict ErrorKind = "stock_conflict"
	KindPersistence   ErrorKind = "persistence"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrUnknownProduct       = errors.New("unknown product reference")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidProduct       = errors.New("invalid product")
	ErrInvalidStaff         = errors.New("invalid staff")
	ErrInvalidConfig        = errors.New("invalid store config")
	ErrInvalidTerminal      = errors.New("invalid terminal id")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotExist        = errors.New("order not exist")
	ErrStaffNotExist        = errors.New("staff not exist")
	ErrProductNotExist      = errors.New("product not exist")
	ErrCartItemNotExist     = errors.New("cart item not exist")
)

// Error 服務層錯誤, Kind 決定呼叫端如何處理
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf 非服務層錯誤一律視為 persistence
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindPersistence
}

// asServiceError 交易內已分類的錯誤原樣回傳, 其餘 (commit 失敗等) 包成 persistence
func asServiceError(op string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return newError(KindPersistence, op, err)
}
