package api

import "github.com/RoyceAzure/lab/cafe_erp/internal/api/handler"

type Server struct {
	ProductHandler *handler.ProductHandler
	OrderHandler   *handler.OrderHandler
	CartHandler    *handler.CartHandler
	StaffHandler   *handler.StaffHandler
	ConfigHandler  *handler.ConfigHandler
	ReportHandler  *handler.ReportHandler
	AdviceHandler  *handler.AdviceHandler
}

func NewServer(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	cartHandler *handler.CartHandler,
	staffHandler *handler.StaffHandler,
	configHandler *handler.ConfigHandler,
	reportHandler *handler.ReportHandler,
	adviceHandler *handler.AdviceHandler,
) *Server {
	return &Server{
		ProductHandler: productHandler,
		OrderHandler:   orderHandler,
		CartHandler:    cartHandler,
		StaffHandler:   staffHandler,
		ConfigHandler:  configHandler,
		ReportHandler:  reportHandler,
		AdviceHandler:  adviceHandler,
	}
}
