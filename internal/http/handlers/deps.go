package handlers

import (
	"poolhall/internal/config"
	"poolhall/internal/queue"
	"poolhall/internal/services"
	"poolhall/internal/state"
)

type Deps struct {
	TableHandler    *TableHandler
	SessionHandler  *SessionHandler
	CategoryHandler *CategoryHandler
	ItemHandler     *ItemHandler
	OrderHandler    *OrderHandler
	ReportHandler   *ReportHandler
	StateHandler    *StateHandler
}

func NewDeps(st *state.Store, cfg config.Config, pub *queue.Publisher) *Deps {
	sessionSvc := services.NewSessionService(st)
	catalogSvc := services.NewCatalogService(st)
	invSvc := services.NewInventoryService(st)
	orderSvc := services.NewOrderService(st)
	reportSvc := services.NewReportService(st, cfg.Location)

	return &Deps{
		TableHandler:    &TableHandler{Sessions: sessionSvc, Catalog: catalogSvc, State: st, Events: pub},
		SessionHandler:  &SessionHandler{Sessions: sessionSvc, Reports: reportSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc, State: st},
		ItemHandler:     &ItemHandler{Catalog: catalogSvc, Inv: invSvc, State: st},
		OrderHandler:    &OrderHandler{Orders: orderSvc, Reports: reportSvc},
		ReportHandler:   &ReportHandler{Reports: reportSvc},
		StateHandler:    &StateHandler{State: st},
	}
}
