package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fortress-arena/internal/config"
	"fortress-arena/internal/sim"
	"fortress-arena/internal/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srvCfg := config.DefaultServer()
	srvCfg.RatePerSecond = 1000
	srvCfg.RateBurst = 1000

	router := NewRouter(RouterConfig{
		DB:             db,
		Server:         srvCfg,
		DisableLogging: true,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func simulateBody(t *testing.T, seed uint32, storeIt bool) *bytes.Buffer {
	t.Helper()
	build := func(owner string) sim.BuildSpec {
		return sim.BuildSpec{
			OwnerID:        owner,
			OwnerName:      owner,
			FortressClass:  "plasma",
			CommanderLevel: 20,
			HeroIDs:        []string{"shade", "warden"},
		}
	}
	body, err := json.Marshal(map[string]interface{}{
		"seed":  seed,
		"left":  build("p1"),
		"right": build("p2"),
		"store": storeIt,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/simulate", "application/json", simulateBody(t, 321, false))
	if err != nil {
		t.Fatalf("POST /api/simulate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Result sim.Result `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Result.Duration <= 0 {
		t.Fatal("battle did not run")
	}

	// Repeating the same request must reproduce the same chain hash.
	resp2, err := http.Post(ts.URL+"/api/simulate", "application/json", simulateBody(t, 321, false))
	if err != nil {
		t.Fatalf("second POST: %v", err)
	}
	defer resp2.Body.Close()
	var out2 struct {
		Result sim.Result `json:"result"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&out2); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Result.Hash != out2.Result.Hash {
		t.Fatal("simulate endpoint is not deterministic")
	}
}

func TestSimulateRejectsBadInput(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/simulate", "application/json", bytes.NewBufferString(`{"seed":0}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestStoreAndFetchBattle(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/simulate", "application/json", simulateBody(t, 555, true))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		BattleID int64 `json:"battleId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.BattleID == 0 {
		t.Fatal("battle not stored")
	}

	list, err := http.Get(ts.URL + "/api/battles")
	if err != nil {
		t.Fatalf("GET battles: %v", err)
	}
	defer list.Body.Close()
	if list.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", list.StatusCode)
	}

	one, err := http.Get(ts.URL + "/api/battles/1")
	if err != nil {
		t.Fatalf("GET battle: %v", err)
	}
	defer one.Body.Close()
	if one.StatusCode != http.StatusOK {
		t.Fatalf("battle status = %d", one.StatusCode)
	}

	events, err := http.Get(ts.URL + "/api/battles/1/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer events.Body.Close()
	if events.StatusCode != http.StatusOK {
		t.Fatalf("events status = %d", events.StatusCode)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	ts := testServer(t)

	build := func(owner string) sim.BuildSpec {
		return sim.BuildSpec{
			OwnerID:        owner,
			FortressClass:  "natural",
			CommanderLevel: 15,
			HeroIDs:        []string{"titan"},
		}
	}
	s, err := sim.New(777, build("a"), build("b"), sim.DefaultArenaConfig())
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	res := s.Run()

	claim := map[string]interface{}{
		"seed":   777,
		"left":   build("a"),
		"right":  build("b"),
		"config": sim.DefaultArenaConfig(),
		"result": res,
	}
	body, _ := json.Marshal(claim)

	resp, err := http.Post(ts.URL+"/api/verify", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("POST /api/verify: %v", err)
	}
	defer resp.Body.Close()
	var verdict struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !verdict.Valid {
		t.Fatalf("honest claim rejected: %s", verdict.Reason)
	}

	// Tamper with the hash and submit again.
	res.Hash ^= 0xdeadbeef
	claim["result"] = res
	body, _ = json.Marshal(claim)
	resp2, err := http.Post(ts.URL+"/api/verify", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("POST tampered: %v", err)
	}
	defer resp2.Body.Close()
	if err := json.NewDecoder(resp2.Body).Decode(&verdict); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if verdict.Valid {
		t.Fatal("tampered claim accepted")
	}
	if verdict.Reason != "hash_mismatch" {
		t.Fatalf("reason = %q, want hash_mismatch", verdict.Reason)
	}
}

func TestRateLimit(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "rl.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer db.Close()

	cfg := config.DefaultServer()
	cfg.RatePerSecond = 1
	cfg.RateBurst = 2

	router := NewRouter(RouterConfig{DB: db, Server: cfg, DisableLogging: true})
	ts := httptest.NewServer(router)
	defer ts.Close()

	limited := false
	for i := 0; i < 10; i++ {
		resp, err := http.Get(ts.URL + "/api/battles")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("rate limiter never engaged")
	}
}
