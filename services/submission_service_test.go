package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"tableside_server/lib"
	"tableside_server/structs"
	"testing"
	"time"
)

// fakeDining is an in-process dining API.
type fakeDining struct {
	mu         sync.Mutex
	tables     []structs.DiningTable
	orders     []structs.DiningTableOrderRequest
	lines      map[string][]structs.DiningOrderLineRequest
	failLineAt int // 1-based line post that answers 500, 0 never
	auth       string
}

func newFakeDining(tables ...structs.DiningTable) *fakeDining {
	return &fakeDining{tables: tables, lines: map[string][]structs.DiningOrderLineRequest{}}
}

func (f *fakeDining) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/dining/tables":
		json.NewEncoder(w).Encode(f.tables)
	case r.Method == http.MethodPost && r.URL.Path == "/dining/tableOrders":
		var req structs.DiningTableOrderRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.orders = append(f.orders, req)
		json.NewEncoder(w).Encode(structs.DiningTableOrder{ID: "ord-1", TableNumber: req.TableNumber})
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/dining/tableOrders/"):
		id := strings.TrimPrefix(r.URL.Path, "/dining/tableOrders/")
		var line structs.DiningOrderLineRequest
		json.NewDecoder(r.Body).Decode(&line)
		total := 0
		for _, l := range f.lines {
			total += len(l)
		}
		if f.failLineAt > 0 && total+1 == f.failLineAt {
			http.Error(w, "kitchen offline", http.StatusInternalServerError)
			return
		}
		f.lines[id] = append(f.lines[id], line)
		w.WriteHeader(http.StatusCreated)
	default:
		http.NotFound(w, r)
	}
}

func newTestSubmission(t *testing.T, dining *fakeDining) (*SubmissionService, *CommandService, *SectionService) {
	t.Helper()
	srv := httptest.NewServer(dining)
	t.Cleanup(srv.Close)

	client := NewDiningClient(&structs.DiningConfig{BaseURL: srv.URL + "/", APIKey: "k3y", Timeout: time.Second})
	cs := newTestCommandService(Hooks{})
	ss := newTestSectionService(Hooks{}, structs.SectionKeepOpen)
	return NewSubmissionService(testLogger(), client, cs, ss), cs, ss
}

func TestSubmitCurrentHappyPath(t *testing.T) {
	dining := newFakeDining(
		structs.DiningTable{Number: 1, Taken: true},
		structs.DiningTable{Number: 4, Taken: false},
		structs.DiningTable{Number: 5, Taken: false},
	)
	sub, cs, _ := newTestSubmission(t, dining)

	cs.CreateCommand("o1", testRestaurant, structs.ReservationDetails{Date: "2026-05-01", Time: "19:00", PartySize: 3})
	p1 := item("p1", 10)
	p1.ShortName = "MARG"
	cs.AddItem("o1", p1)
	cs.AddItem("o1", p1)
	cs.AddItem("o1", item("p2", 2))

	receipt, err := sub.SubmitCurrent(context.Background(), "o1")
	if err != nil {
		t.Fatalf("SubmitCurrent() error = %v", err)
	}
	if receipt.OrderID != "ord-1" || receipt.TableNumber != 4 || receipt.LinesPosted != 2 {
		t.Errorf("receipt = %+v", receipt)
	}

	if len(dining.orders) != 1 || dining.orders[0] != (structs.DiningTableOrderRequest{TableNumber: 4, CustomersCount: 3}) {
		t.Errorf("orders = %+v", dining.orders)
	}
	lines := dining.lines["ord-1"]
	if len(lines) != 2 {
		t.Fatalf("posted lines = %+v", lines)
	}
	if lines[0] != (structs.DiningOrderLineRequest{MenuItemID: "p1", MenuItemShortName: "MARG", HowMany: 2}) {
		t.Errorf("lines[0] = %+v", lines[0])
	}
	if lines[1].MenuItemShortName != "Item p2" {
		t.Errorf("lines[1] short name = %s, want the full name", lines[1].MenuItemShortName)
	}
	if dining.auth != "Bearer k3y" {
		t.Errorf("Authorization = %q", dining.auth)
	}

	var payload structs.OrderQRPayload
	if err := json.Unmarshal([]byte(receipt.QRPayload), &payload); err != nil {
		t.Fatalf("QR payload is not json: %v", err)
	}
	if payload.OrderID != "ord-1" || payload.UserID != "o1" || payload.RestaurantID != "r1" ||
		payload.ReservationTime != "2026-05-01 19:00" || payload.ItemCount != 3 || payload.TotalAmount.String() != "22" {
		t.Errorf("payload = %+v", payload)
	}

	png, err := sub.QRCode("ord-1", 128)
	if err != nil {
		t.Fatalf("QRCode() error = %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("QRCode() did not return a png")
	}
	if _, err := sub.QRCode("ord-404", 128); !errors.Is(err, lib.ErrReceiptNotFound) {
		t.Errorf("QRCode(unknown) error = %v", err)
	}
}

func TestSubmitSection(t *testing.T) {
	dining := newFakeDining(structs.DiningTable{Number: 2})
	sub, _, sections := newTestSubmission(t, dining)
	sections.AddItem("T1", item("p1", 10))

	receipt, err := sub.SubmitSection(context.Background(), "T1")
	if err != nil {
		t.Fatalf("SubmitSection() error = %v", err)
	}
	if receipt.TableNumber != 2 || dining.orders[0].CustomersCount != 1 {
		t.Errorf("receipt = %+v, orders = %+v", receipt, dining.orders)
	}
}

func TestSubmitFailures(t *testing.T) {
	t.Run("no free table", func(t *testing.T) {
		sub, cs, _ := newTestSubmission(t, newFakeDining(structs.DiningTable{Number: 1, Taken: true}))
		cs.CreateCommand("o1", testRestaurant, structs.ReservationDetails{})
		cs.AddItem("o1", item("p1", 1))

		_, err := sub.SubmitCurrent(context.Background(), "o1")
		if !errors.Is(err, lib.ErrExternalSubmission) || !errors.Is(err, lib.ErrNoFreeTable) {
			t.Errorf("error = %v, want ErrExternalSubmission and ErrNoFreeTable", err)
		}
	})

	t.Run("line post fails without rollback", func(t *testing.T) {
		dining := newFakeDining(structs.DiningTable{Number: 1})
		dining.failLineAt = 2
		sub, cs, _ := newTestSubmission(t, dining)
		cs.CreateCommand("o1", testRestaurant, structs.ReservationDetails{})
		cs.AddItem("o1", item("p1", 1))
		cs.AddItem("o1", item("p2", 1))

		_, err := sub.SubmitCurrent(context.Background(), "o1")
		if !errors.Is(err, lib.ErrExternalSubmission) {
			t.Fatalf("error = %v, want ErrExternalSubmission", err)
		}
		if len(dining.lines["ord-1"]) != 1 {
			t.Errorf("posted lines = %d, want the first one kept", len(dining.lines["ord-1"]))
		}
		if _, err := sub.Receipt("ord-1"); !errors.Is(err, lib.ErrReceiptNotFound) {
			t.Errorf("failed submission stored a receipt")
		}
	})

	t.Run("dining api unreachable", func(t *testing.T) {
		client := NewDiningClient(&structs.DiningConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
		cs := newTestCommandService(Hooks{})
		sub := NewSubmissionService(testLogger(), client, cs, nil)
		cs.CreateCommand("o1", testRestaurant, structs.ReservationDetails{})
		cs.AddItem("o1", item("p1", 1))

		if _, err := sub.SubmitCurrent(context.Background(), "o1"); !errors.Is(err, lib.ErrExternalSubmission) {
			t.Errorf("error = %v, want ErrExternalSubmission", err)
		}
	})

	t.Run("empty command", func(t *testing.T) {
		sub, cs, _ := newTestSubmission(t, newFakeDining(structs.DiningTable{Number: 1}))
		cs.CreateCommand("o1", testRestaurant, structs.ReservationDetails{})

		if _, err := sub.SubmitCurrent(context.Background(), "o1"); !errors.Is(err, lib.ErrNothingToSubmit) {
			t.Errorf("error = %v, want ErrNothingToSubmit", err)
		}
	})

	t.Run("no command", func(t *testing.T) {
		sub, _, _ := newTestSubmission(t, newFakeDining())
		if _, err := sub.SubmitCurrent(context.Background(), "ghost"); !errors.Is(err, lib.ErrCommandNotFound) {
			t.Errorf("error = %v, want ErrCommandNotFound", err)
		}
	})
}
