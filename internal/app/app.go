// Package app holds the kiosk view state: which screen is showing, pending
// confirmations, and the wiring from UI events to the collection managers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/drinks"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
)

type ScreenName string

const (
	ScreenLanding ScreenName = "landing"
	ScreenAdd     ScreenName = "add"
	ScreenForm    ScreenName = "form"
)

type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionBack    Direction = "back"
)

// Screen is the current view. OrderID is set when the form edits an existing
// order; Prefill carries initial form data for edit and "make it custom"
// flows.
type Screen struct {
	Name    ScreenName       `json:"name"`
	OrderID string           `json:"orderId,omitempty"`
	Prefill *model.OrderForm `json:"prefill,omitempty"`
}

var (
	ErrActiveRunExists   = errors.New("a run is already active")
	ErrNoActiveRun       = errors.New("no active run")
	ErrUnknownOrder      = errors.New("order not found in current run")
	ErrUnknownSavedOrder = errors.New("saved order not found")
	ErrNothingPending    = errors.New("no confirmation pending")
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

type Recorder interface {
	Record(ctx context.Context, event audit.Event)
}

// NopRecorder drops events; used when auditing is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, audit.Event) {}

type App struct {
	runs    RunService
	orders  OrderService
	saved   SavedOrderService
	auditor Recorder
	logger  *zap.Logger
	userID  string

	mu                 sync.Mutex
	screen             Screen
	direction          Direction
	endRunConfirm      bool
	pendingSavedDelete string
	sidebarActive      bool
}

func New(runs RunService, orders OrderService, saved SavedOrderService, auditor Recorder, logger *zap.Logger, userID string) *App {
	if auditor == nil {
		auditor = NopRecorder{}
	}
	return &App{
		runs:      runs,
		orders:    orders,
		saved:     saved,
		auditor:   auditor,
		logger:    logger,
		userID:    userID,
		screen:    Screen{Name: ScreenLanding},
		direction: DirectionForward,
	}
}

// Snapshot is the whole view state plus the collections the screens render.
type Snapshot struct {
	Screen             Screen             `json:"screen"`
	Direction          Direction          `json:"direction"`
	EndRunConfirm      bool               `json:"endRunConfirm"`
	PendingSavedDelete string             `json:"pendingSavedDelete,omitempty"`
	SidebarActive      bool               `json:"sidebarActive"`
	ActiveRun          *model.Run         `json:"activeRun"`
	Orders             []model.Order      `json:"orders"`
	SavedOrders        []model.SavedOrder `json:"savedOrders"`
}

func (a *App) State() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	active := a.runs.Active()
	runID := ""
	if active != nil {
		runID = active.ID
	}
	orders := a.orders.Orders(runID)
	if active != nil {
		metrics.ActiveRunOrders.Set(float64(len(orders)))
	}
	return Snapshot{
		Screen:             a.screen,
		Direction:          a.direction,
		EndRunConfirm:      a.endRunConfirm,
		PendingSavedDelete: a.pendingSavedDelete,
		SidebarActive:      a.sidebarActive,
		ActiveRun:          active,
		Orders:             orders,
		SavedOrders:        a.saved.SavedOrders(),
	}
}

func (a *App) setScreen(screen Screen, direction Direction) {
	a.screen = screen
	a.direction = direction
}

// StartRun begins a new run and moves to the add screen.
func (a *App) StartRun(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runs.Active() != nil {
		return ErrActiveRunExists
	}
	run, err := a.runs.Start()
	if err != nil {
		return err
	}
	a.auditor.Record(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionRunStarted,
		Entity:    "run",
		EntityID:  run.ID,
		UserID:    a.userID,
	})
	a.setScreen(Screen{Name: ScreenAdd}, DirectionForward)
	return nil
}

// OpenAdd moves from the landing screen to the add screen (the FAB). It
// requires an active run to add to.
func (a *App) OpenAdd() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runs.Active() == nil {
		return ErrNoActiveRun
	}
	a.setScreen(Screen{Name: ScreenAdd}, DirectionForward)
	return nil
}

// NewOrder opens a blank order form.
func (a *App) NewOrder() {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefill := drinks.EmptyForm()
	a.setScreen(Screen{Name: ScreenForm, Prefill: &prefill}, DirectionForward)
}

// EditOrder opens the form prefilled with an existing order of the current
// run.
func (a *App) EditOrder(orderID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	active := a.runs.Active()
	if active == nil {
		return ErrNoActiveRun
	}
	for _, o := range a.orders.Orders(active.ID) {
		if o.ID == orderID {
			form := o.OrderForm
			a.setScreen(Screen{Name: ScreenForm, OrderID: orderID, Prefill: &form}, DirectionForward)
			return nil
		}
	}
	return ErrUnknownOrder
}

// PickUsual replays a saved order straight into the run and returns to the
// landing screen.
func (a *App) PickUsual(ctx context.Context, savedID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	saved, ok := a.findSaved(savedID)
	if !ok {
		return ErrUnknownSavedOrder
	}
	active := a.runs.Active()
	runID := ""
	if active != nil {
		runID = active.ID
	}
	order, err := a.orders.Add(runID, saved.OrderData)
	if err != nil {
		return err
	}
	if order != nil {
		a.auditor.Record(ctx, audit.Event{
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionOrderAdded,
			Entity:    "order",
			EntityID:  order.ID,
			RunID:     runID,
			UserID:    a.userID,
			Detail:    "from saved order " + savedID,
		})
	}
	a.setScreen(Screen{Name: ScreenLanding}, DirectionBack)
	return nil
}

// PickCustom opens the form prefilled from a saved order.
func (a *App) PickCustom(savedID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	saved, ok := a.findSaved(savedID)
	if !ok {
		return ErrUnknownSavedOrder
	}
	form := saved.OrderData
	a.setScreen(Screen{Name: ScreenForm, Prefill: &form}, DirectionForward)
	return nil
}

func (a *App) findSaved(savedID string) (model.SavedOrder, bool) {
	for _, s := range a.saved.SavedOrders() {
		if s.ID == savedID {
			return s, true
		}
	}
	return model.SavedOrder{}, false
}

// SubmitForm commits the form: update when the form was opened on an
// existing order, add otherwise, and optionally remember the order as a
// saved template. The submission gate is the only business rule in the
// system; a rejected form leaves the screen untouched.
func (a *App) SubmitForm(ctx context.Context, form model.OrderForm, remember bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := drinks.ValidateForm(form); err != nil {
		return err
	}

	active := a.runs.Active()
	runID := ""
	if active != nil {
		runID = active.ID
	}

	if a.screen.Name == ScreenForm && a.screen.OrderID != "" {
		if err := a.orders.Update(a.screen.OrderID, model.PatchFrom(form)); err != nil {
			return err
		}
		a.auditor.Record(ctx, audit.Event{
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionOrderUpdated,
			Entity:    "order",
			EntityID:  a.screen.OrderID,
			RunID:     runID,
			UserID:    a.userID,
		})
	} else {
		order, err := a.orders.Add(runID, form)
		if err != nil {
			return err
		}
		if order != nil {
			a.auditor.Record(ctx, audit.Event{
				Timestamp: time.Now().UTC(),
				Action:    audit.ActionOrderAdded,
				Entity:    "order",
				EntityID:  order.ID,
				RunID:     runID,
				UserID:    a.userID,
			})
		}
	}

	if remember {
		saved, err := a.saved.Save(form)
		if err != nil {
			return err
		}
		a.auditor.Record(ctx, audit.Event{
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionSavedCreated,
			Entity:    "saved_order",
			EntityID:  saved.ID,
			UserID:    a.userID,
		})
	}

	a.setScreen(Screen{Name: ScreenLanding}, DirectionBack)
	return nil
}

// CancelForm abandons the form and returns to the add screen.
func (a *App) CancelForm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setScreen(Screen{Name: ScreenAdd}, DirectionBack)
}

// Back returns to the landing screen.
func (a *App) Back() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setScreen(Screen{Name: ScreenLanding}, DirectionBack)
}

// SetSidebarActive flips which pane is focused on the wide layout. Narrow
// layouts use Back instead.
func (a *App) SetSidebarActive(active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sidebarActive = active
}

// RequestEndRun shows the end-run confirmation.
func (a *App) RequestEndRun() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runs.Active() == nil {
		return ErrNoActiveRun
	}
	a.endRunConfirm = true
	return nil
}

// ConfirmEndRun archives the active run and lands.
func (a *App) ConfirmEndRun(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.endRunConfirm {
		return ErrNothingPending
	}
	a.endRunConfirm = false

	active := a.runs.Active()
	if active == nil {
		return ErrNoActiveRun
	}
	if err := a.runs.Archive(active.ID); err != nil {
		return err
	}
	a.auditor.Record(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionRunArchived,
		Entity:    "run",
		EntityID:  active.ID,
		UserID:    a.userID,
	})
	a.setScreen(Screen{Name: ScreenLanding}, DirectionBack)
	return nil
}

func (a *App) CancelEndRun() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.endRunConfirm = false
}

// DeleteOrder removes an order; the swipe gesture confirms it in the UI.
func (a *App) DeleteOrder(ctx context.Context, orderID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.orders.Remove(orderID); err != nil {
		return err
	}
	a.auditor.Record(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionOrderRemoved,
		Entity:    "order",
		EntityID:  orderID,
		UserID:    a.userID,
	})
	return nil
}

// ReorderOrders commits a drag-and-drop move within the active run's list.
func (a *App) ReorderOrders(ctx context.Context, from, to int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	active := a.runs.Active()
	if active == nil {
		return ErrNoActiveRun
	}
	if err := a.orders.Reorder(active.ID, from, to); err != nil {
		return err
	}
	a.auditor.Record(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionOrdersReordered,
		Entity:    "order",
		RunID:     active.ID,
		UserID:    a.userID,
	})
	return nil
}

// RequestDeleteSaved shows the delete confirmation for one saved order.
func (a *App) RequestDeleteSaved(savedID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.findSaved(savedID); !ok {
		return ErrUnknownSavedOrder
	}
	a.pendingSavedDelete = savedID
	return nil
}

// ConfirmDeleteSaved deletes the pending saved order.
func (a *App) ConfirmDeleteSaved(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pendingSavedDelete == "" {
		return ErrNothingPending
	}
	savedID := a.pendingSavedDelete
	a.pendingSavedDelete = ""

	if err := a.saved.Remove(savedID); err != nil {
		return err
	}
	a.auditor.Record(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionSavedRemoved,
		Entity:    "saved_order",
		EntityID:  savedID,
		UserID:    a.userID,
	})
	return nil
}

func (a *App) CancelDeleteSaved() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingSavedDelete = ""
}

// ReorderSaved commits a drag-and-drop move within the saved-order list.
func (a *App) ReorderSaved(from, to int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved.Reorder(from, to)
}
