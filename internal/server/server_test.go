package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/app"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/kvstore"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/order"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/run"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/saved"
	mock_server "gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/server/mocks"
)

type serverMocks struct {
	runs   *mock_server.MockRunService
	orders *mock_server.MockOrderService
	saved  *mock_server.MockSavedOrderService
}

func newTestServer(t *testing.T) (*Server, serverMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := serverMocks{
		runs:   mock_server.NewMockRunService(ctrl),
		orders: mock_server.NewMockOrderService(ctrl),
		saved:  mock_server.NewMockSavedOrderService(ctrl),
	}
	return New(m.runs, m.orders, m.saved, nil, zap.NewNop()), m
}

func doRequest(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.setupRoutes().ServeHTTP(rec, req)
	return rec
}

func sampleForm() model.OrderForm {
	return model.OrderForm{PersonName: "Alice", DrinkType: "Coffee", Variant: "Latte"}
}

func TestHandleActiveRun(t *testing.T) {
	t.Run("no active run", func(t *testing.T) {
		s, m := newTestServer(t)
		m.runs.EXPECT().Active().Return(nil)

		rec := doRequest(t, s, http.MethodGet, "/run", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("active run", func(t *testing.T) {
		s, m := newTestServer(t)
		m.runs.EXPECT().Active().Return(&model.Run{ID: "run-1", UserID: "local"})

		rec := doRequest(t, s, http.MethodGet, "/run", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got model.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "run-1", got.ID)
	})
}

func TestHandleStartRun(t *testing.T) {
	s, m := newTestServer(t)
	m.runs.EXPECT().Start().Return(model.Run{ID: "run-1"}, nil)

	rec := doRequest(t, s, http.MethodPost, "/runs", nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-1")
}

func TestHandleArchiveRun(t *testing.T) {
	s, m := newTestServer(t)
	m.runs.EXPECT().Archive("run-1").Return(nil)

	rec := doRequest(t, s, http.MethodPost, "/runs/run-1/archive", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleListOrders(t *testing.T) {
	s, m := newTestServer(t)
	m.runs.EXPECT().Active().Return(&model.Run{ID: "run-1"})
	m.orders.EXPECT().Orders("run-1").Return([]model.Order{
		{ID: "o1", RunID: "run-1", OrderForm: sampleForm()},
	})

	rec := doRequest(t, s, http.MethodGet, "/orders", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []orderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "o1", views[0].ID)
	// summaries ride along with each order
	require.NotEmpty(t, views[0].Summary)
	assert.Equal(t, "Coffee", views[0].Summary[0].Label)
}

func TestActiveRunOrdersGauge(t *testing.T) {
	t.Run("tracks the active run's list size", func(t *testing.T) {
		s, m := newTestServer(t)
		m.runs.EXPECT().Active().Return(&model.Run{ID: "run-1"})
		m.orders.EXPECT().Orders("run-1").Return([]model.Order{
			{ID: "o1", RunID: "run-1", OrderForm: sampleForm()},
			{ID: "o2", RunID: "run-1", OrderForm: sampleForm()},
		})

		doRequest(t, s, http.MethodGet, "/orders", nil)

		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActiveRunOrders))
	})

	t.Run("a read with no active run leaves the gauge alone", func(t *testing.T) {
		s, m := newTestServer(t)
		m.runs.EXPECT().Active().Return(nil)
		m.orders.EXPECT().Orders("").Return([]model.Order{})

		doRequest(t, s, http.MethodGet, "/orders", nil)

		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActiveRunOrders))
	})
}

func TestHandleAddOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		setup      func(m serverMocks)
		wantStatus int
	}{
		{
			name: "created",
			body: sampleForm(),
			setup: func(m serverMocks) {
				m.runs.EXPECT().Active().Return(&model.Run{ID: "run-1"})
				m.orders.EXPECT().Add("run-1", sampleForm()).
					Return(&model.Order{ID: "o1", RunID: "run-1", OrderForm: sampleForm()}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid body",
			body:       nil,
			setup:      func(serverMocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing person name",
			body:       model.OrderForm{DrinkType: "Coffee"},
			setup:      func(serverMocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "no active run",
			body: sampleForm(),
			setup: func(m serverMocks) {
				m.runs.EXPECT().Active().Return(nil)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestServer(t)
			tc.setup(m)

			var rec *httptest.ResponseRecorder
			if tc.body == nil {
				req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
				rec = httptest.NewRecorder()
				s.setupRoutes().ServeHTTP(rec, req)
			} else {
				rec = doRequest(t, s, http.MethodPost, "/orders", tc.body)
			}

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestHandleUpdateOrder(t *testing.T) {
	s, m := newTestServer(t)
	name := "Bob"
	m.orders.EXPECT().Update("o1", model.OrderPatch{PersonName: &name}).Return(nil)

	rec := doRequest(t, s, http.MethodPatch, "/orders/o1", map[string]string{"personName": "Bob"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleDeleteOrder(t *testing.T) {
	s, m := newTestServer(t)
	m.orders.EXPECT().Remove("o1").Return(nil)

	rec := doRequest(t, s, http.MethodDelete, "/orders/o1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReorderOrders(t *testing.T) {
	t.Run("reorders within the active run", func(t *testing.T) {
		s, m := newTestServer(t)
		m.runs.EXPECT().Active().Return(&model.Run{ID: "run-1"})
		m.orders.EXPECT().Reorder("run-1", 0, 2).Return(nil)
		m.orders.EXPECT().Orders("run-1").Return([]model.Order{})

		rec := doRequest(t, s, http.MethodPost, "/orders/reorder", reorderRequest{From: 0, To: 2})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no active run", func(t *testing.T) {
		s, m := newTestServer(t)
		m.runs.EXPECT().Active().Return(nil)

		rec := doRequest(t, s, http.MethodPost, "/orders/reorder", reorderRequest{From: 0, To: 2})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleSavedOrders(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		s, m := newTestServer(t)
		m.saved.EXPECT().SavedOrders().Return([]model.SavedOrder{
			{ID: "s1", UserID: "local", OrderData: sampleForm()},
		})

		rec := doRequest(t, s, http.MethodGet, "/saved-orders", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "s1")
	})

	t.Run("save", func(t *testing.T) {
		s, m := newTestServer(t)
		m.saved.EXPECT().Save(sampleForm()).Return(model.SavedOrder{ID: "s1", OrderData: sampleForm()}, nil)

		rec := doRequest(t, s, http.MethodPost, "/saved-orders", sampleForm())

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("save rejects invalid form", func(t *testing.T) {
		s, _ := newTestServer(t)

		rec := doRequest(t, s, http.MethodPost, "/saved-orders", model.OrderForm{PersonName: "Alice"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		s, m := newTestServer(t)
		m.saved.EXPECT().Remove("s1").Return(nil)

		rec := doRequest(t, s, http.MethodDelete, "/saved-orders/s1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reorder", func(t *testing.T) {
		s, m := newTestServer(t)
		m.saved.EXPECT().Reorder(1, 0).Return(nil)
		m.saved.EXPECT().SavedOrders().Return([]model.SavedOrder{})

		rec := doRequest(t, s, http.MethodPost, "/saved-orders/reorder", reorderRequest{From: 1, To: 0})

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleDrinkCatalog(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/drinks", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got, "drinks")
	assert.Contains(t, got, "milkAmounts")
	assert.Contains(t, got, "sweetenerStep")
}

// kioskServer wires real managers over an in-memory store so the app
// endpoints exercise the actual state machine.
func kioskServer(t *testing.T) *Server {
	t.Helper()

	store := kvstore.NewMemStore()
	log := zap.NewNop()
	runs := run.NewManager(store, "local", log)
	orders := order.NewManager(store, log)
	savedOrders := saved.NewManager(store, "local", log)
	kiosk := app.New(runs, orders, savedOrders, nil, log, "local")
	return New(runs, orders, savedOrders, kiosk, log)
}

func TestHandleAppState(t *testing.T) {
	s := kioskServer(t)

	rec := doRequest(t, s, http.MethodGet, "/app/state", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var snap app.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, app.ScreenLanding, snap.Screen.Name)
}

func TestHandleAppEvent(t *testing.T) {
	s := kioskServer(t)

	postEvent := func(t *testing.T, event appEvent) (*httptest.ResponseRecorder, app.Snapshot) {
		t.Helper()
		rec := doRequest(t, s, http.MethodPost, "/app/events", event)
		var snap app.Snapshot
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		}
		return rec, snap
	}

	t.Run("unknown event type", func(t *testing.T) {
		rec, _ := postEvent(t, appEvent{Type: "teleport"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("start run", func(t *testing.T) {
		rec, snap := postEvent(t, appEvent{Type: "start_run"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, app.ScreenAdd, snap.Screen.Name)
		assert.NotNil(t, snap.ActiveRun)
	})

	t.Run("second start conflicts", func(t *testing.T) {
		rec, _ := postEvent(t, appEvent{Type: "start_run"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("submit form without payload", func(t *testing.T) {
		rec, _ := postEvent(t, appEvent{Type: "submit_form"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("submit form", func(t *testing.T) {
		form := sampleForm()
		rec, snap := postEvent(t, appEvent{Type: "submit_form", Form: &form, Remember: true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, app.ScreenLanding, snap.Screen.Name)
		require.Len(t, snap.Orders, 1)
		require.Len(t, snap.SavedOrders, 1)
	})

	t.Run("invalid form is rejected", func(t *testing.T) {
		form := model.OrderForm{DrinkType: "Coffee"}
		rec, _ := postEvent(t, appEvent{Type: "submit_form", Form: &form})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("edit unknown order", func(t *testing.T) {
		rec, _ := postEvent(t, appEvent{Type: "edit_order", OrderID: "missing"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("end run flow", func(t *testing.T) {
		rec, snap := postEvent(t, appEvent{Type: "request_end_run"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, snap.EndRunConfirm)

		rec, snap = postEvent(t, appEvent{Type: "confirm_end_run"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, snap.ActiveRun)
		assert.Equal(t, app.ScreenLanding, snap.Screen.Name)
	})

	t.Run("confirm without pending conflicts", func(t *testing.T) {
		rec, _ := postEvent(t, appEvent{Type: "confirm_end_run"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
