package response

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/rs/zerolog"
)

const (
	CodeBadRequest      = "bad_request"
	CodeValidation      = "validation"
	CodeNotFound        = "not_found"
	CodeStockConflict   = "stock_conflict"
	CodeInternal        = "internal"
	CodeTooManyRequests = "too_many_requests"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope 成功時只有 data, 失敗時只有 error
type Envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func SuccessJSON(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Data: data})
}

func CreatedJSON(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Data: data})
}

func ErrorJSON(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Envelope{Error: &ErrorBody{Code: code, Message: message}})
}

// StatusOf 服務層錯誤種類對應的 http status 與錯誤碼
func StatusOf(kind service.ErrorKind) (int, string) {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest, CodeValidation
	case service.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case service.KindStockConflict:
		return http.StatusConflict, CodeStockConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ServiceErrorJSON persistence 錯誤不把內部訊息回給 client
func ServiceErrorJSON(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	status, code := StatusOf(service.KindOf(err))
	message := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error().Err(err).Msg("request failed")
		}
		message = "internal server error"
	}
	ErrorJSON(w, status, code, message)
}
