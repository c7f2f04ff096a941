package api

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal caps concurrent replay streams.
	MaxWSConnectionsTotal = 200

	// replayTickBatch is how many battle ticks of events are sent per
	// websocket frame during playback.
	replayTickBatch = 30
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Replays carry no secrets and playback is read-only.
		return true
	},
}

// replayStreamer plays stored battle logs back to websocket clients at
// battle speed. Playback reads the recorded log only; it never
// re-simulates.
type replayStreamer struct {
	h  *handlers
	mu sync.Mutex
	n  int
}

func newReplayStreamer(h *handlers) *replayStreamer {
	return &replayStreamer{h: h}
}

func (rs *replayStreamer) acquire() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.n >= MaxWSConnectionsTotal {
		return false
	}
	rs.n++
	wsConnectionsActive.Set(float64(rs.n))
	return true
}

func (rs *replayStreamer) release() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.n--
	wsConnectionsActive.Set(float64(rs.n))
}

// handleReplay upgrades the connection and streams the battle's replay
// events grouped into one-second batches, paced to real battle time.
func (rs *replayStreamer) handleReplay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad battle id")
		return
	}

	events, err := rs.h.db.GetEvents(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "replay not found")
		return
	}

	if !rs.acquire() {
		RecordRejected("ws_limit")
		writeError(w, http.StatusServiceUnavailable, "too many replay streams")
		return
	}
	defer rs.release()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("replay upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Batch events by tick window and pace frames one second apart.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	i := 0
	window := int32(replayTickBatch)
	for i < len(events) {
		start := i
		for i < len(events) && events[i].Tick < window {
			i++
		}
		window += replayTickBatch

		if i > start {
			if err := conn.WriteJSON(events[start:i]); err != nil {
				return // client went away
			}
		}
		if i < len(events) {
			<-ticker.C
		}
	}

	// End-of-replay marker.
	_ = conn.WriteJSON(map[string]string{"kind": "replay_end"})
}
