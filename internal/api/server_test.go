package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nikmy/klaro/internal/bills"
	"github.com/nikmy/klaro/internal/kv"
	"github.com/nikmy/klaro/internal/shopping"
	"github.com/nikmy/klaro/pkg/clock"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T, backend kv.Backend, mode SeedMode) Server {
	t.Helper()

	log := logger.NewStub()

	lists, err := shopping.New(backend, log)
	require.NoError(t, err)

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	billsAPI, err := bills.New(backend, clock.Fixed(now), log)
	require.NoError(t, err)

	var cfg Config
	cfg.SeedMode = mode
	return NewServer(cfg, log, lists, billsAPI)
}

func do(t *testing.T, s Server, method, path, body string) (int, response) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestServer_health(t *testing.T) {
	s := newTestServer(t, kv.NewMemory(), SeedOnRequest)

	status, resp := do(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success)
	require.JSONEq(t, `{"status":"ok","shoppingLists":0,"bills":0}`, string(resp.Data))

	do(t, s, http.MethodGet, "/api/shopping-lists", "")
	do(t, s, http.MethodGet, "/api/bills", "")
	do(t, s, http.MethodPost, "/api/bills", `{"name":"Rent","amount":900,"dueDate":"2024-06-01"}`)

	status, resp = do(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status":"ok","shoppingLists":2,"bills":4}`, string(resp.Data))
}

func TestServer_seedOnRequest(t *testing.T) {
	type testcase struct {
		name      string
		mode      SeedMode
		wantLists int
		wantBills int
	}

	tests := [...]testcase{
		{name: "startup mode leaves stores alone", mode: SeedOnStartup},
		{name: "request mode seeds", mode: SeedOnRequest, wantLists: 2, wantBills: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, kv.NewMemory(), tt.mode)

			status, resp := do(t, s, http.MethodGet, "/api/shopping-lists", "")
			require.Equal(t, http.StatusOK, status)
			require.Len(t, decode[[]shopping.List](t, resp.Data), tt.wantLists)

			status, resp = do(t, s, http.MethodGet, "/api/bills", "")
			require.Equal(t, http.StatusOK, status)
			require.Len(t, decode[[]bills.Bill](t, resp.Data), tt.wantBills)
		})
	}
}

func TestServer_shoppingFlow(t *testing.T) {
	s := newTestServer(t, kv.NewMemory(), SeedOnStartup)

	status, resp := do(t, s, http.MethodPost, "/api/shopping-lists", `{"name":"Weekly"}`)
	require.Equal(t, http.StatusOK, status)
	list := decode[shopping.List](t, resp.Data)
	require.Equal(t, "Weekly", list.Name)
	require.Empty(t, list.Items)

	base := "/api/shopping-lists/" + list.ID

	status, resp = do(t, s, http.MethodPost, base+"/items", `{"name":"Milk"}`)
	require.Equal(t, http.StatusOK, status)
	item := decode[shopping.Item](t, resp.Data)
	require.Equal(t, "Milk", item.Name)
	require.Equal(t, 1, item.Quantity)
	require.False(t, item.Completed)

	status, resp = do(t, s, http.MethodPatch, base+"/items/"+item.ID, "")
	require.Equal(t, http.StatusOK, status)
	list = decode[shopping.List](t, resp.Data)
	require.True(t, list.Items[0].Completed)

	status, resp = do(t, s, http.MethodDelete, base+"/items/"+item.ID, "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"id":"`+list.ID+`","name":"Weekly","items":[]}`, string(resp.Data))

	status, resp = do(t, s, http.MethodPatch, base, `{"name":"Monthly"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Monthly", decode[shopping.List](t, resp.Data).Name)

	status, resp = do(t, s, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Monthly", decode[shopping.List](t, resp.Data).Name)

	status, resp = do(t, s, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"id":"`+list.ID+`"}`, string(resp.Data))

	status, resp = do(t, s, http.MethodGet, "/api/shopping-lists", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(resp.Data))
}

func TestServer_shoppingErrors(t *testing.T) {
	type testcase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}

	tests := [...]testcase{
		{
			name:       "create without name",
			method:     http.MethodPost,
			path:       "/api/shopping-lists",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "List name is required",
		},
		{
			name:       "malformed json",
			method:     http.MethodPost,
			path:       "/api/shopping-lists",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body",
		},
		{
			name:       "item for unknown list",
			method:     http.MethodPost,
			path:       "/api/shopping-lists/nope/items",
			body:       `{"name":"Milk"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Shopping list not found",
		},
		{
			name:       "blank item name",
			method:     http.MethodPost,
			path:       "/api/shopping-lists/list-1/items",
			body:       `{"name":""}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Item name is required",
		},
		{
			name:       "blank item name on unknown list",
			method:     http.MethodPost,
			path:       "/api/shopping-lists/nope/items",
			body:       `{"name":"  "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Item name is required",
		},
		{
			name:       "toggle on unknown list",
			method:     http.MethodPatch,
			path:       "/api/shopping-lists/nope/items/x",
			wantStatus: http.StatusNotFound,
			wantError:  "Shopping list not found",
		},
		{
			name:       "remove on unknown list",
			method:     http.MethodDelete,
			path:       "/api/shopping-lists/nope/items/x",
			wantStatus: http.StatusNotFound,
			wantError:  "Shopping list not found",
		},
		{
			name:       "get unknown list",
			method:     http.MethodGet,
			path:       "/api/shopping-lists/nope",
			wantStatus: http.StatusNotFound,
			wantError:  "Shopping list not found",
		},
		{
			name:       "delete unknown list",
			method:     http.MethodDelete,
			path:       "/api/shopping-lists/nope",
			wantStatus: http.StatusNotFound,
			wantError:  "Shopping list not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemory()
			s := newTestServer(t, backend, SeedOnRequest)

			// seeds list-1
			do(t, s, http.MethodGet, "/api/shopping-lists", "")

			status, resp := do(t, s, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, status)
			require.False(t, resp.Success)
			require.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestServer_billsFlow(t *testing.T) {
	s := newTestServer(t, kv.NewMemory(), SeedOnStartup)

	status, resp := do(t, s, http.MethodPost, "/api/bills", `{"name":"Water","amount":45,"dueDate":"2024-06-20"}`)
	require.Equal(t, http.StatusOK, status)
	bill := decode[bills.Bill](t, resp.Data)
	require.False(t, bill.Paid)

	path := "/api/bills/" + bill.ID

	status, resp = do(t, s, http.MethodPatch, path, `{"paid":true}`)
	require.Equal(t, http.StatusOK, status)
	want := bill
	want.Paid = true
	require.Equal(t, want, decode[bills.Bill](t, resp.Data))

	status, resp = do(t, s, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, want, decode[bills.Bill](t, resp.Data))

	status, resp = do(t, s, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"id":"`+bill.ID+`"}`, string(resp.Data))

	status, resp = do(t, s, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Bill not found", resp.Error)
}

func TestServer_billsErrors(t *testing.T) {
	type testcase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}

	tests := [...]testcase{
		{
			name:       "missing amount",
			method:     http.MethodPost,
			path:       "/api/bills",
			body:       `{"name":"Water","dueDate":"2024-06-20"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Name, amount, and dueDate are required",
		},
		{
			name:       "amount as string",
			method:     http.MethodPost,
			path:       "/api/bills",
			body:       `{"name":"Water","amount":"45","dueDate":"2024-06-20"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body",
		},
		{
			name:       "bad due date",
			method:     http.MethodPost,
			path:       "/api/bills",
			body:       `{"name":"Water","amount":45,"dueDate":"someday"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  `Bill due date "someday" is not a date`,
		},
		{
			name:       "patch unknown bill",
			method:     http.MethodPatch,
			path:       "/api/bills/nope",
			body:       `{"paid":true}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Bill not found",
		},
		{
			name:       "get unknown bill",
			method:     http.MethodGet,
			path:       "/api/bills/nope",
			wantStatus: http.StatusNotFound,
			wantError:  "Bill not found",
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nothing",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, kv.NewMemory(), SeedOnStartup)

			status, resp := do(t, s, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, status)
			require.False(t, resp.Success)
			if tt.wantError != "" {
				require.Equal(t, tt.wantError, resp.Error)
			}
		})
	}
}

type brokenBackend struct{}

var errBroken = errors.New("connection refused")

func (brokenBackend) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenBackend) Has(context.Context, string) (bool, error) { return false, errBroken }
func (brokenBackend) Put(context.Context, string, []byte) error { return errBroken }
func (brokenBackend) Delete(context.Context, string) (bool, error) { return false, errBroken }
func (brokenBackend) Close(context.Context) error { return nil }

func TestServer_backendFailureIsHidden(t *testing.T) {
	s := newTestServer(t, brokenBackend{}, SeedOnStartup)

	for _, path := range []string{"/api/shopping-lists", "/api/bills", "/api/bills/x", "/api/health"} {
		status, resp := do(t, s, http.MethodGet, path, "")
		require.Equal(t, http.StatusInternalServerError, status, path)
		require.False(t, resp.Success)
		require.Equal(t, "Internal server error", resp.Error)
	}
}
