package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/dto"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/rs/zerolog"
)

type ConfigHandler struct {
	configs service.IStoreConfigService
	logger  zerolog.Logger
}

func NewConfigHandler(configs service.IStoreConfigService, logger zerolog.Logger) *ConfigHandler {
	if configs == nil {
		panic("store config service cannot be nil")
	}
	return &ConfigHandler{configs: configs, logger: logger}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.GetConfig(r.Context())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, cfg)
}

func (h *ConfigHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cfg, err := h.configs.SaveConfig(r.Context(), req.ToModel())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, cfg)
}
