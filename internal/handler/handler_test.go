package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"boothorders/internal/cache"
	"boothorders/internal/model"
	"boothorders/internal/service"
	"boothorders/internal/sheets"
)

type gridSource struct {
	mu    sync.Mutex
	grid  [][]string
	calls int
}

func (s *gridSource) Fetch(ctx context.Context, sheetID, worksheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.grid, nil
}

func (s *gridSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testGrid() [][]string {
	return [][]string{
		{"Date", "Booth #", "Exhibitor Name", "Item", "Color", "Quantity", "Status"},
		{"6/14/2025", "A-245", "TechFlow", "Display", "Black", "1", "Out for delivery"},
		{"6/14/2025", "A-245", "TechFlow", "Chairs", "Grey", "4", "Delivered"},
		{"6/13/2025", "B 156", "Green Wave", "Banner", "Green", "2.0", "Cancelled"},
	}
}

type testServer struct {
	handler http.Handler
	source  *gridSource
	cache   *cache.TTL[any]
}

func newTestServer(t *testing.T, src sheets.Source, staticDir string) *testServer {
	t.Helper()
	c := cache.New[any](time.Minute)
	repo := service.NewOrderRepository(c, src, "sheet-1", "Orders", time.Second)
	agg := service.NewAggregator(repo, c)
	gs, _ := src.(*gridSource)
	return &testServer{
		handler: NewRouter(Deps{Aggregator: agg, Repo: repo, Cache: c, StaticDir: staticDir}),
		source:  gs,
		cache:   c,
	}
}

func (s *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestListOrders(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	rec := srv.do(t, http.MethodGet, "/api/orders")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	orders := decode[[]model.Order](t, rec)
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != "ORD-6-14-2025-A-245-1" || orders[0].Status != model.StatusOutForDelivery {
		t.Errorf("unexpected first order %+v", orders[0])
	}
	if orders[2].Quantity != 2 || orders[2].Status != model.StatusCancelled {
		t.Errorf("unexpected third order %+v", orders[2])
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

func TestForceRefreshParam(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	srv.do(t, http.MethodGet, "/api/orders")
	srv.do(t, http.MethodGet, "/api/orders")
	if srv.source.Calls() != 1 {
		t.Fatalf("expected cached second call, got %d fetches", srv.source.Calls())
	}

	srv.do(t, http.MethodGet, "/api/orders?force_refresh=TRUE")
	if srv.source.Calls() != 2 {
		t.Errorf("expected force_refresh=TRUE to refetch, got %d fetches", srv.source.Calls())
	}

	srv.do(t, http.MethodGet, "/api/orders?force_refresh=yes")
	if srv.source.Calls() != 2 {
		t.Errorf("expected only \"true\" to force, got %d fetches", srv.source.Calls())
	}
}

func TestExhibitorOrders(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	rec := srv.do(t, http.MethodGet, "/api/orders/exhibitor/techflow")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	for _, key := range []string{"exhibitor", "orders", "total_orders", "delivered_orders", "last_updated", "force_refreshed"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing key %q in %v", key, body)
		}
	}
	if body["exhibitor"] != "techflow" || body["total_orders"] != float64(2) || body["delivered_orders"] != float64(1) {
		t.Errorf("unexpected body %v", body)
	}
	if body["force_refreshed"] != false {
		t.Errorf("expected force_refreshed=false, got %v", body["force_refreshed"])
	}

	forced := decode[map[string]any](t, srv.do(t, http.MethodGet, "/api/orders/exhibitor/techflow?force_refresh=true"))
	if forced["force_refreshed"] != true {
		t.Errorf("expected force_refreshed=true, got %v", forced["force_refreshed"])
	}
}

func TestExhibitorOrdersEscapedName(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	body := decode[service.ExhibitorOrders](t, srv.do(t, http.MethodGet, "/api/orders/exhibitor/Green%20Wave"))
	if body.Exhibitor != "Green Wave" || body.TotalOrders != 1 {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestExhibitorOrdersLiteralPercent(t *testing.T) {
	grid := append(testGrid(), []string{"6/15/2025", "C-7", "Lab %41", "Stand", "White", "1", "Delivered"})
	srv := newTestServer(t, &gridSource{grid: grid}, "")

	body := decode[service.ExhibitorOrders](t, srv.do(t, http.MethodGet, "/api/orders/exhibitor/Lab%20%2541"))
	if body.Exhibitor != "Lab %41" || body.TotalOrders != 1 {
		t.Errorf("expected single decode of the name, got %+v", body)
	}
}

func TestExhibitorOrdersEscapedSlash(t *testing.T) {
	grid := append(testGrid(), []string{"6/15/2025", "D-1", "Smith/Jones", "Stand", "White", "1", "Delivered"})
	srv := newTestServer(t, &gridSource{grid: grid}, "")

	body := decode[service.ExhibitorOrders](t, srv.do(t, http.MethodGet, "/api/orders/exhibitor/Smith%2FJones"))
	if body.Exhibitor != "Smith/Jones" || body.TotalOrders != 1 {
		t.Errorf("expected escaped slash to decode, got %+v", body)
	}
}

func TestExhibitorOrdersUnknown(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	rec := srv.do(t, http.MethodGet, "/api/orders/exhibitor/nobody")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"orders":[]`) {
		t.Errorf("expected empty orders array, got %s", rec.Body.String())
	}
}

func TestBoothOrders(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	body := decode[map[string]any](t, srv.do(t, http.MethodGet, "/api/orders/booth/A-245"))
	if body["booth"] != "A-245" || body["total_orders"] != float64(2) {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["last_updated"]; !ok {
		t.Error("missing last_updated")
	}

	lower := decode[service.BoothOrders](t, srv.do(t, http.MethodGet, "/api/orders/booth/a-245"))
	if lower.TotalOrders != 0 {
		t.Errorf("expected case-sensitive booth match, got %+v", lower)
	}
}

func TestListExhibitors(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	got := decode[[]model.ExhibitorSummary](t, srv.do(t, http.MethodGet, "/api/exhibitors"))
	if len(got) != 2 {
		t.Fatalf("expected 2 exhibitors, got %d", len(got))
	}
	want := model.ExhibitorSummary{Name: "TechFlow", Booth: "A-245", TotalOrders: 2, DeliveredOrders: 1}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	body := decode[map[string]any](t, srv.do(t, http.MethodGet, "/api/stats"))
	want := map[string]float64{
		"total_orders":     3,
		"delivered":        1,
		"in_process":       0,
		"in_route":         0,
		"out_for_delivery": 1,
		"cancelled":        1,
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("%s = %v, want %v", k, body[k], v)
		}
	}
	if _, ok := body["last_updated"]; !ok {
		t.Error("missing last_updated")
	}
}

func TestFallbackWhenSheetEmpty(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: nil}, "")

	orders := decode[[]model.Order](t, srv.do(t, http.MethodGet, "/api/orders"))
	if len(orders) != 4 {
		t.Errorf("expected 4 fallback orders, got %d", len(orders))
	}
}

func TestFallbackWithoutSource(t *testing.T) {
	srv := newTestServer(t, nil, "")

	rec := srv.do(t, http.MethodGet, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["total_orders"] != float64(4) {
		t.Errorf("expected fallback stats, got %v", body)
	}

	health := decode[map[string]any](t, srv.do(t, http.MethodGet, "/api/health"))
	if health["google_sheets_connected"] != false {
		t.Errorf("expected disconnected source, got %v", health)
	}
}

func TestClearCache(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	srv.do(t, http.MethodGet, "/api/exhibitors")
	if srv.cache.Len() == 0 {
		t.Fatal("expected cache entries")
	}

	rec := srv.do(t, http.MethodPost, "/api/clear-cache")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["message"] != "Cache cleared successfully" {
		t.Errorf("unexpected message %v", body)
	}
	if srv.cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", srv.cache.Len())
	}

	srv.do(t, http.MethodGet, "/api/orders")
	if srv.source.Calls() != 2 {
		t.Errorf("expected refetch after clear, got %d fetches", srv.source.Calls())
	}

	if rec := srv.do(t, http.MethodGet, "/api/clear-cache"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")
	srv.do(t, http.MethodGet, "/api/orders")

	body := decode[map[string]any](t, srv.do(t, http.MethodGet, "/api/health"))
	if body["status"] != "healthy" || body["google_sheets_connected"] != true || body["cache_size"] != float64(1) {
		t.Errorf("unexpected health %v", body)
	}
}

func TestWorksheetsWithoutLister(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	rec := srv.do(t, http.MethodGet, "/api/worksheets")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestStaticFrontend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "static"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "static", "main.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, &gridSource{grid: testGrid()}, dir)

	if rec := srv.do(t, http.MethodGet, "/static/main.js"); !strings.Contains(rec.Body.String(), "console.log") {
		t.Errorf("expected asset, got %d %q", rec.Code, rec.Body.String())
	}
	if rec := srv.do(t, http.MethodGet, "/exhibitor/TechFlow"); !strings.Contains(rec.Body.String(), "app") {
		t.Errorf("expected index fallback, got %d %q", rec.Code, rec.Body.String())
	}
	if rec := srv.do(t, http.MethodGet, "/"); !strings.Contains(rec.Body.String(), "app") {
		t.Errorf("expected index at root, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestStaticFrontendNotBuilt(t *testing.T) {
	srv := newTestServer(t, &gridSource{grid: testGrid()}, t.TempDir())

	rec := srv.do(t, http.MethodGet, "/")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Frontend not built") {
		t.Errorf("expected not-built message, got %d %q", rec.Code, rec.Body.String())
	}
}
