package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"tableside_server/config"
	"tableside_server/services"
	"tableside_server/structs"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const testCatalog = `{
  "restaurants": [{"id": "main", "name": "Test Bistro"}],
  "categories": [{"id": "c1", "name": "Mains"}],
  "items": [
    {"id": "soup", "name": "Tomato Soup", "short_name": "Soup", "price": "6.50", "category_id": "c1"},
    {"id": "water", "name": "Water", "price": "2", "category_id": "c1"}
  ]
}`

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type commandView struct {
	Command struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Lines  []struct {
			ID        string `json:"id"`
			Quantity  int    `json:"quantity"`
			Submitted bool   `json:"submitted"`
		} `json:"lines"`
	} `json:"command"`
	Groups []struct {
		MenuItemID    string `json:"menu_item_id"`
		GroupQuantity int    `json:"group_quantity"`
	} `json:"groups"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// fakeDiningAPI always has table 4 free and answers order "ord-42".
func fakeDiningAPI() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dining/tables", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]structs.DiningTable{{Number: 3, Taken: true}, {Number: 4}})
	})
	mux.HandleFunc("POST /dining/tableOrders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(structs.DiningTableOrder{ID: "ord-42", TableNumber: 4})
	})
	mux.HandleFunc("POST /dining/tableOrders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	menuFile := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(menuFile, []byte(testCatalog), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	dining := httptest.NewServer(fakeDiningAPI())
	t.Cleanup(dining.Close)

	cfg := config.Load()
	cfg.RateLimit.Enabled = false
	cfg.Auth.GuestTokenSecret = "test-secret"
	cfg.Restaurant.ID = "main"
	cfg.Menu.File = menuFile
	cfg.Menu.SourceURL = ""
	cfg.Cache.Enabled = false
	cfg.Database.Enabled = false
	cfg.Kitchen.AmqpURL = ""
	cfg.Telegram.Token = ""
	cfg.Email.ApiKey = ""
	cfg.Dining.BaseURL = dining.URL
	cfg.Dining.Timeout = 2 * time.Second

	sm := services.NewServiceManager(context.Background(), config.NewLogger(false), cfg, nil)
	r, err := App(cfg, sm, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("App() error = %v", err)
	}
	return r
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func guestToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, env := call(t, h, http.MethodPost, "/auth/guest", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /auth/guest = %d", rec.Code)
	}
	got := decodeData[structs.GuestTokenResponse](t, env)
	if got.Token == "" || got.OwnerID == "" {
		t.Fatalf("guest token response = %+v", got)
	}
	return got.Token
}

func TestCommandRoutes(t *testing.T) {
	h := newTestApp(t)
	token := guestToken(t, h)

	if rec, _ := call(t, h, http.MethodGet, "/commands/current", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /commands/current without token = %d, want 401", rec.Code)
	}
	if rec, _ := call(t, h, http.MethodGet, "/commands/current", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /commands/current before create = %d, want 404", rec.Code)
	}

	rec, _ := call(t, h, http.MethodPost, "/commands", token, map[string]any{
		"restaurant_id": "main",
		"reservation":   map[string]any{"party_size": 2, "type": "dinein"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /commands = %d: %s", rec.Code, rec.Body)
	}

	for range 2 {
		call(t, h, http.MethodPost, "/commands/current/items", token, map[string]string{"menu_item_id": "soup"})
	}
	rec, env := call(t, h, http.MethodPost, "/commands/current/items", token, map[string]string{"menu_item_id": "water"})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST items = %d: %s", rec.Code, rec.Body)
	}
	view := decodeData[commandView](t, env)
	if len(view.Command.Lines) != 2 || len(view.Groups) != 2 || view.Groups[0].GroupQuantity != 2 {
		t.Fatalf("view after adds = %+v", view)
	}
	if !view.RemainingBalance.Equal(decimal.NewFromInt(15)) {
		t.Errorf("remaining balance = %s, want 15", view.RemainingBalance)
	}

	waterLine := view.Command.Lines[1].ID
	rec, env = call(t, h, http.MethodPut, "/commands/current/items/"+waterLine+"/quantity", token, map[string]int{"quantity": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT quantity = %d: %s", rec.Code, rec.Body)
	}
	if view = decodeData[commandView](t, env); len(view.Command.Lines) != 1 {
		t.Errorf("quantity 0 kept %d lines", len(view.Command.Lines))
	}

	if rec, _ := call(t, h, http.MethodPost, "/commands/current/items/"+waterLine+"/paid", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("toggle removed line = %d, want 404", rec.Code)
	}
	if rec, _ := call(t, h, http.MethodDelete, "/commands/current/items/not-a-uuid", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("DELETE bad line id = %d, want 400", rec.Code)
	}
	if rec, _ := call(t, h, http.MethodPost, "/commands/current/items", token, map[string]string{"menu_item_id": "caviar"}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown menu item = %d, want 404", rec.Code)
	}
	if rec, _ := call(t, h, http.MethodPost, "/commands/current/requests", token, map[string]string{"type": "dance"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid request type = %d, want 400", rec.Code)
	}

	rec, env = call(t, h, http.MethodPost, "/commands/current/submit", token, nil)
	if view = decodeData[commandView](t, env); rec.Code != http.StatusOK || !view.Command.Lines[0].Submitted {
		t.Errorf("submit = %d, lines %+v", rec.Code, view.Command.Lines)
	}

	rec, env = call(t, h, http.MethodPost, "/commands/current/confirm", token, nil)
	if view = decodeData[commandView](t, env); rec.Code != http.StatusOK || view.Command.Status != string(structs.CommandStatusConfirmed) {
		t.Fatalf("confirm = %d, status %q", rec.Code, view.Command.Status)
	}
	if rec, _ := call(t, h, http.MethodPost, "/commands/current/items", token, map[string]string{"menu_item_id": "soup"}); rec.Code != http.StatusNotFound {
		t.Errorf("add after confirm = %d, want 404", rec.Code)
	}

	_, env = call(t, h, http.MethodGet, "/commands/confirmed", token, nil)
	confirmed := decodeData[struct {
		Count int `json:"count"`
	}](t, env)
	if confirmed.Count != 1 {
		t.Errorf("confirmed count = %d, want 1", confirmed.Count)
	}
}

func TestSectionRoutes(t *testing.T) {
	h := newTestApp(t)

	rec, env := call(t, h, http.MethodGet, "/sections/T1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /sections/T1 = %d: %s", rec.Code, rec.Body)
	}
	first := decodeData[commandView](t, env)
	if first.Command.ID == "" || len(first.Command.Lines) != 0 {
		t.Fatalf("provisioned command = %+v", first.Command)
	}

	call(t, h, http.MethodPost, "/sections/T1/items", "", map[string]string{"menu_item_id": "soup"})
	_, env = call(t, h, http.MethodPost, "/sections/T2/items", "", map[string]string{"menu_item_id": "water"})
	if t2 := decodeData[commandView](t, env); t2.Command.ID == first.Command.ID {
		t.Errorf("sections share command %s", t2.Command.ID)
	}

	rec, _ = call(t, h, http.MethodPost, "/sections/T1/requests", "", map[string]string{"type": "water", "note": "no ice"})
	if rec.Code != http.StatusOK {
		t.Errorf("waitstaff request = %d: %s", rec.Code, rec.Body)
	}

	_, env = call(t, h, http.MethodGet, "/sections", "", nil)
	list := decodeData[struct {
		Count int `json:"count"`
	}](t, env)
	if list.Count != 2 {
		t.Errorf("sections count = %d, want 2", list.Count)
	}

	rec, env = call(t, h, http.MethodPost, "/sections/T1/confirm", "", nil)
	if view := decodeData[commandView](t, env); rec.Code != http.StatusOK || view.Command.Status != string(structs.CommandStatusConfirmed) {
		t.Errorf("confirm T1 = %d, status %q", rec.Code, view.Command.Status)
	}
	if rec, _ := call(t, h, http.MethodGet, "/sections/T1/history", "", nil); rec.Code != http.StatusOK {
		t.Errorf("history = %d", rec.Code)
	}
}

func TestReservationRoutes(t *testing.T) {
	h := newTestApp(t)
	token := guestToken(t, h)

	type wizardData struct {
		Wizard struct {
			Step string `json:"step"`
		} `json:"wizard"`
	}
	step := func(env envelope) string {
		return decodeData[wizardData](t, env).Wizard.Step
	}

	rec, env := call(t, h, http.MethodPost, "/reservations", token, map[string]string{"restaurant_id": "main"})
	if rec.Code != http.StatusOK || step(env) != "info" {
		t.Fatalf("begin = %d, step %q", rec.Code, step(env))
	}
	if rec, _ := call(t, h, http.MethodPost, "/reservations/current/payment", token, nil); rec.Code != http.StatusConflict {
		t.Errorf("payment from info = %d, want 409", rec.Code)
	}

	_, env = call(t, h, http.MethodPost, "/reservations/current/info", token, map[string]any{
		"reservation":   map[string]any{"date": "2026-11-02", "time": "19:30", "party_size": 4, "pre_order": true},
		"contact_email": "guest@example.com",
	})
	if step(env) != "menu" {
		t.Fatalf("after info step = %q", step(env))
	}
	if rec, _ := call(t, h, http.MethodPost, "/reservations/current/payment", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("empty pre-order payment = %d, want 400", rec.Code)
	}

	call(t, h, http.MethodPost, "/commands/current/items", token, map[string]string{"menu_item_id": "soup"})
	if _, env = call(t, h, http.MethodPost, "/reservations/current/payment", token, nil); step(env) != "payment" {
		t.Fatalf("after payment step = %q", step(env))
	}
	if _, env = call(t, h, http.MethodPost, "/reservations/current/confirm", token, nil); step(env) != "confirm" {
		t.Fatalf("after confirm step = %q", step(env))
	}
	if rec, _ := call(t, h, http.MethodPost, "/reservations/current/back", token, nil); rec.Code != http.StatusConflict {
		t.Errorf("back from confirm = %d, want 409", rec.Code)
	}
}

func TestOrderRoutes(t *testing.T) {
	h := newTestApp(t)
	token := guestToken(t, h)

	call(t, h, http.MethodPost, "/commands", token, map[string]any{"restaurant_id": "main"})
	if rec, _ := call(t, h, http.MethodPost, "/orders/submit", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("submit empty command = %d, want 400", rec.Code)
	}

	call(t, h, http.MethodPost, "/commands/current/items", token, map[string]string{"menu_item_id": "soup"})
	rec, env := call(t, h, http.MethodPost, "/orders/submit", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit = %d: %s", rec.Code, rec.Body)
	}
	receipt := decodeData[structs.SubmissionReceipt](t, env)
	if receipt.OrderID != "ord-42" || receipt.TableNumber != 4 || receipt.LinesPosted != 1 {
		t.Errorf("receipt = %+v", receipt)
	}

	req := httptest.NewRequest(http.MethodGet, "/orders/ord-42/qr?size=128", nil)
	qr := httptest.NewRecorder()
	h.ServeHTTP(qr, req)
	if qr.Code != http.StatusOK || qr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qr = %d %q", qr.Code, qr.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(qr.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("qr body is not a png")
	}

	if rec, _ := call(t, h, http.MethodGet, "/orders/nope/qr", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown order qr = %d, want 404", rec.Code)
	}
	if rec, _ := call(t, h, http.MethodGet, "/archive", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("archive without database = %d, want 404", rec.Code)
	}
}

func TestHealthAndMenuRoutes(t *testing.T) {
	h := newTestApp(t)

	for _, path := range []string{"/", "/health/server", "/health/store", "/health/cache", "/health/database", "/menu", "/menu/items/soup"} {
		if rec, _ := call(t, h, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
	if rec, _ := call(t, h, http.MethodGet, "/menu/items/caviar", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown item = %d, want 404", rec.Code)
	}
	if rec, _ := call(t, h, http.MethodGet, "/nowhere", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "tableside_http_requests_total") {
		t.Errorf("metrics = %d, missing request counter", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `path="/menu/items/{itemId}"`) {
		t.Errorf("metrics are not labelled by route pattern")
	}
}
