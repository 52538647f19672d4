package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
)

// 請求 body 上限
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, response.CodeBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}
