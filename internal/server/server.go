//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/app"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/drinks"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
)

type RunService interface {
	Active() *model.Run
	Start() (model.Run, error)
	Archive(runID string) error
}

type OrderService interface {
	Orders(runID string) []model.Order
	Add(runID string, form model.OrderForm) (*model.Order, error)
	Update(orderID string, patch model.OrderPatch) error
	Remove(orderID string) error
	Reorder(runID string, from, to int) error
}

type SavedOrderService interface {
	SavedOrders() []model.SavedOrder
	Save(form model.OrderForm) (model.SavedOrder, error)
	Remove(savedID string) error
	Reorder(from, to int) error
}

// Server is the local HTTP facade: collection endpoints for the managers and
// app endpoints driving the kiosk screen state.
type Server struct {
	runs   RunService
	orders OrderService
	saved  SavedOrderService
	kiosk  *app.App
	logger *zap.Logger

	server *http.Server
}

func New(runs RunService, orders OrderService, saved SavedOrderService, kiosk *app.App, logger *zap.Logger) *Server {
	return &Server{
		runs:   runs,
		orders: orders,
		saved:  saved,
		kiosk:  kiosk,
		logger: logger,
	}
}

func (s *Server) Run(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	router.HandleFunc("/run", s.handleActiveRun).Methods(http.MethodGet)
	router.HandleFunc("/runs", s.handleStartRun).Methods(http.MethodPost)
	router.HandleFunc("/runs/{id}/archive", s.handleArchiveRun).Methods(http.MethodPost)

	router.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders", s.handleAddOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/reorder", s.handleReorderOrders).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}", s.handleUpdateOrder).Methods(http.MethodPatch)
	router.HandleFunc("/orders/{id}", s.handleDeleteOrder).Methods(http.MethodDelete)

	router.HandleFunc("/saved-orders", s.handleListSaved).Methods(http.MethodGet)
	router.HandleFunc("/saved-orders", s.handleSaveOrder).Methods(http.MethodPost)
	router.HandleFunc("/saved-orders/reorder", s.handleReorderSaved).Methods(http.MethodPost)
	router.HandleFunc("/saved-orders/{id}", s.handleDeleteSaved).Methods(http.MethodDelete)

	router.HandleFunc("/drinks", s.handleDrinkCatalog).Methods(http.MethodGet)

	router.HandleFunc("/app/state", s.handleAppState).Methods(http.MethodGet)
	router.HandleFunc("/app/events", s.handleAppEvent).Methods(http.MethodPost)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleActiveRun(w http.ResponseWriter, r *http.Request) {
	active := s.runs.Active()
	if active == nil {
		respondError(w, http.StatusNotFound, "no active run")
		return
	}
	respondJSON(w, http.StatusOK, active)
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Start()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to start run")
		return
	}
	respondJSON(w, http.StatusCreated, run)
}

func (s *Server) handleArchiveRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]
	if err := s.runs.Archive(runID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to archive run")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "run archived"})
}

// orderView is an order plus its derived pill summary.
type orderView struct {
	model.Order
	Summary []drinks.Aspect `json:"summary"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	active := s.runs.Active()
	runID := ""
	if active != nil {
		runID = active.ID
	}

	orders := s.orders.Orders(runID)
	if active != nil {
		metrics.ActiveRunOrders.Set(float64(len(orders)))
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = orderView{Order: o, Summary: drinks.Summary(o.OrderForm)}
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	var form model.OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := drinks.ValidateForm(form); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := s.runs.Active()
	if active == nil {
		respondError(w, http.StatusConflict, "no active run")
		return
	}

	order, err := s.orders.Add(active.ID, form)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add order")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var patch model.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.orders.Update(orderID, patch); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "order updated"})
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if err := s.orders.Remove(orderID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleReorderOrders(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	active := s.runs.Active()
	if active == nil {
		respondError(w, http.StatusConflict, "no active run")
		return
	}

	if err := s.orders.Reorder(active.ID, req.From, req.To); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reorder orders")
		return
	}
	respondJSON(w, http.StatusOK, s.orders.Orders(active.ID))
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.saved.SavedOrders())
}

func (s *Server) handleSaveOrder(w http.ResponseWriter, r *http.Request) {
	var form model.OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := drinks.ValidateForm(form); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.saved.Save(form)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save order")
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	savedID := mux.Vars(r)["id"]
	if err := s.saved.Remove(savedID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete saved order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "saved order deleted"})
}

func (s *Server) handleReorderSaved(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.saved.Reorder(req.From, req.To); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reorder saved orders")
		return
	}
	respondJSON(w, http.StatusOK, s.saved.SavedOrders())
}

func (s *Server) handleDrinkCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"drinks":         drinks.Catalog,
		"milkTypes":      drinks.MilkTypes,
		"milkAmounts":    drinks.MilkAmounts,
		"sweetenerTypes": drinks.SweetenerTypes,
		"sweetenerMin":   drinks.SweetenerMin,
		"sweetenerMax":   drinks.SweetenerMax,
		"sweetenerStep":  drinks.SweetenerStep,
	})
}

func (s *Server) handleAppState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.kiosk.State())
}

// appEvent is one UI event posted to the screen state machine.
type appEvent struct {
	Type     string           `json:"type"`
	OrderID  string           `json:"orderId,omitempty"`
	SavedID  string           `json:"savedId,omitempty"`
	Form     *model.OrderForm `json:"form,omitempty"`
	Remember bool             `json:"remember,omitempty"`
	From     int              `json:"from,omitempty"`
	To       int              `json:"to,omitempty"`
	Active   bool             `json:"active,omitempty"`
}

func (s *Server) handleAppEvent(w http.ResponseWriter, r *http.Request) {
	var event appEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch event.Type {
	case "start_run":
		err = s.kiosk.StartRun(r.Context())
	case "open_add":
		err = s.kiosk.OpenAdd()
	case "new_order":
		s.kiosk.NewOrder()
	case "edit_order":
		err = s.kiosk.EditOrder(event.OrderID)
	case "pick_usual":
		err = s.kiosk.PickUsual(r.Context(), event.SavedID)
	case "pick_custom":
		err = s.kiosk.PickCustom(event.SavedID)
	case "submit_form":
		if event.Form == nil {
			respondError(w, http.StatusBadRequest, "form is required")
			return
		}
		err = s.kiosk.SubmitForm(r.Context(), *event.Form, event.Remember)
	case "cancel_form":
		s.kiosk.CancelForm()
	case "back":
		s.kiosk.Back()
	case "set_sidebar":
		s.kiosk.SetSidebarActive(event.Active)
	case "request_end_run":
		err = s.kiosk.RequestEndRun()
	case "confirm_end_run":
		err = s.kiosk.ConfirmEndRun(r.Context())
	case "cancel_end_run":
		s.kiosk.CancelEndRun()
	case "delete_order":
		err = s.kiosk.DeleteOrder(r.Context(), event.OrderID)
	case "reorder_orders":
		err = s.kiosk.ReorderOrders(r.Context(), event.From, event.To)
	case "request_delete_saved":
		err = s.kiosk.RequestDeleteSaved(event.SavedID)
	case "confirm_delete_saved":
		err = s.kiosk.ConfirmDeleteSaved(r.Context())
	case "cancel_delete_saved":
		s.kiosk.CancelDeleteSaved()
	case "reorder_saved":
		err = s.kiosk.ReorderSaved(event.From, event.To)
	default:
		respondError(w, http.StatusBadRequest, "unknown event type")
		return
	}

	if err != nil {
		respondError(w, eventStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.kiosk.State())
}

func eventStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrActiveRunExists),
		errors.Is(err, app.ErrNoActiveRun),
		errors.Is(err, app.ErrNothingPending):
		return http.StatusConflict
	case errors.Is(err, app.ErrUnknownOrder),
		errors.Is(err, app.ErrUnknownSavedOrder):
		return http.StatusNotFound
	case errors.Is(err, drinks.ErrPersonNameRequired),
		errors.Is(err, drinks.ErrDrinkTypeRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
