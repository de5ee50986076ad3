package drafts

import (
	"ecards-backend/core"
	"ecards-backend/stores/filesystem"
	"ecards-backend/stores/memory"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(store core.DraftStore) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/health", HandleHealth())
	r.Post("/api/drafts", HandleUpsert(store))
	r.Get("/api/drafts/{draft_id}", HandleGet(store))
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	res := rec.Result()
	decoded := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	res.Body.Close()
	return res, decoded
}

func TestHealth(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	res, body := doJSON(t, router, "GET", "/api/health", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	if body["status"] != "ok" || body["service"] != "ecards-backend" {
		t.Errorf("Unexpected health payload: %v", body)
	}
}

func TestCreateDraftScenario(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	payload := `{"title":"My ecard","template":"assets/template1.png","canvasSize":{"w":900,"h":600},"data":{"version":"5.3.0","objects":[]}}`
	before := time.Now().UnixMilli()
	res, created := doJSON(t, router, "POST", "/api/drafts", payload)
	after := time.Now().UnixMilli()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}

	id, _ := created["id"].(string)
	if !strings.HasPrefix(id, "d_") {
		t.Errorf("Expected generated id with d_ prefix, got %q", id)
	}

	updatedAt, ok := created["updatedAt"].(float64)
	if !ok {
		t.Fatalf("Expected numeric updatedAt, got %T", created["updatedAt"])
	}
	if int64(updatedAt) < before || int64(updatedAt) > after {
		t.Errorf("updatedAt %v not within [%d, %d]", updatedAt, before, after)
	}

	data, _ := created["data"].(map[string]any)
	objects, ok := data["objects"].([]any)
	if !ok || len(objects) != 0 {
		t.Errorf("Expected data.objects to pass through as [], got %v", data["objects"])
	}

	res, fetched := doJSON(t, router, "GET", "/api/drafts/"+id, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 on fetch, got %d", res.StatusCode)
	}
	if !reflect.DeepEqual(created, fetched) {
		t.Errorf("Fetched draft differs from created one:\n%v\n%v", created, fetched)
	}
}

func TestUpsertWithExplicitIDOverwrites(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	doJSON(t, router, "POST", "/api/drafts", `{"id":"draft_123","title":"A"}`)
	doJSON(t, router, "POST", "/api/drafts", `{"id":"draft_123","title":"B"}`)

	res, fetched := doJSON(t, router, "GET", "/api/drafts/draft_123", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	if fetched["title"] != "B" {
		t.Errorf("Expected last write to win, got title %v", fetched["title"])
	}
}

func TestUpsertKeepsClientTimestamp(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	res, created := doJSON(t, router, "POST", "/api/drafts", `{"title":"A","updatedAt":12345}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	if ts, _ := created["updatedAt"].(float64); ts != 12345 {
		t.Errorf("Expected client timestamp to be stored verbatim, got %v", created["updatedAt"])
	}
}

func TestUpsertRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	for _, body := range []string{"", "not json", `"a string"`, `[1,2,3]`, "null", "42"} {
		res, errBody := doJSON(t, router, "POST", "/api/drafts", body)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("Body %q: expected 400, got %d", body, res.StatusCode)
		}
		if errBody["error"] == "" {
			t.Errorf("Body %q: expected an error message", body)
		}
	}
}

func TestGetUnknownDraftReturnsNotFound(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	res, body := doJSON(t, router, "GET", "/api/drafts/never_created", "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", res.StatusCode)
	}
	if body["error"] != "Not found" {
		t.Errorf("Expected Not found error body, got %v", body)
	}
}

func TestCorruptTableFailsRequestButNotHealth(t *testing.T) {
	dir := t.TempDir()
	store := filesystem.NewDraftStore(dir)
	router := newTestRouter(store)

	if err := os.WriteFile(filepath.Join(dir, "drafts.json"), []byte("corrupt {"), 0644); err != nil {
		t.Fatalf("Failed to corrupt table file: %v", err)
	}

	if res, _ := doJSON(t, router, "POST", "/api/drafts", `{"title":"A"}`); res.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 on write against corrupt table, got %d", res.StatusCode)
	}
	if res, _ := doJSON(t, router, "GET", "/api/drafts/any", ""); res.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 on read against corrupt table, got %d", res.StatusCode)
	}
	if res, _ := doJSON(t, router, "GET", "/api/health", ""); res.StatusCode != http.StatusOK {
		t.Errorf("Expected health to stay 200, got %d", res.StatusCode)
	}
}

func TestGeneratedIDsAreDistinctAcrossCreates(t *testing.T) {
	router := newTestRouter(memory.NewDraftStore())

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		_, created := doJSON(t, router, "POST", "/api/drafts", `{"title":"untitled"}`)
		id, _ := created["id"].(string)
		if id == "" || seen[id] {
			t.Fatalf("Expected a fresh id, got %q", id)
		}
		seen[id] = true
	}
}
