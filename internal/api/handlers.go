package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fortress-arena/internal/guild"
	"fortress-arena/internal/sim"
	"fortress-arena/internal/store"
	"fortress-arena/internal/verify"
)

// handlers carries the dependencies every endpoint needs.
type handlers struct {
	db *store.DB
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// simulateRequest is the POST /api/simulate body. Config is optional and
// defaults to the tournament rule set.
type simulateRequest struct {
	Seed   uint32           `json:"seed"`
	Left   sim.BuildSpec    `json:"left"`
	Right  sim.BuildSpec    `json:"right"`
	Config *sim.ArenaConfig `json:"config,omitempty"`
	Store  bool             `json:"store,omitempty"`
}

type simulateResponse struct {
	BattleID int64      `json:"battleId,omitempty"`
	Result   sim.Result `json:"result"`
}

func (h *handlers) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RecordRejected("invalid")
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cfg := sim.DefaultArenaConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	started := time.Now()
	s, err := sim.New(req.Seed, req.Left, req.Right, cfg)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	res := s.Run()
	RecordBattle(res.Duration, time.Since(started))

	resp := simulateResponse{Result: res}
	if req.Store && h.db != nil {
		id, err := h.db.SaveBattle(req.Seed, req.Left, req.Right, cfg, res)
		if err != nil {
			log.Printf("store battle: %v", err)
			writeError(w, http.StatusInternalServerError, "battle ran but could not be stored")
			return
		}
		resp.BattleID = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleVerify re-runs a claimed battle and reports the verdict.
func (h *handlers) handleVerify(w http.ResponseWriter, r *http.Request) {
	var claim verify.Claim
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		RecordRejected("invalid")
		writeError(w, http.StatusBadRequest, "malformed claim")
		return
	}

	_, err := verify.Rerun(claim)
	if err == nil {
		RecordVerification("ok")
		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true})
		return
	}

	var verr *verify.Error
	if errors.As(err, &verr) {
		RecordVerification(string(verr.Kind))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid":  false,
			"reason": string(verr.Kind),
			"detail": verr.Error(),
		})
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

// guildRequest is the POST /api/guild body.
type guildRequest struct {
	Seed      uint32            `json:"seed"`
	Attackers []guild.Combatant `json:"attackers"`
	Defenders []guild.Combatant `json:"defenders"`
}

func (h *handlers) handleGuild(w http.ResponseWriter, r *http.Request) {
	var req guildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RecordRejected("invalid")
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	b, err := guild.New(req.Seed, req.Attackers, req.Defenders)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	started := time.Now()
	rep := b.Run()
	RecordBattle(rep.Duration, time.Since(started))
	writeJSON(w, http.StatusOK, rep)
}

func (h *handlers) handleListBattles(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	rows, err := h.db.ListBattles(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list battles failed")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handlers) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad battle id")
		return
	}
	b, err := h.db.GetBattle(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "battle not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "load battle failed")
		return
	}
	sides, err := h.db.GetSides(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load sides failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"battle": b, "sides": sides})
}

func (h *handlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad battle id")
		return
	}
	events, err := h.db.GetEvents(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load events failed")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
