package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/debugviz"
	"cosmic-arena/internal/room"
)

// routerHandlers holds the dependencies the room-directory HTTP surface
// needs to serve requests.
type routerHandlers struct {
	directory *room.Directory
}

type createRoomResponse struct {
	RoomCode string `json:"room_code"`
}

type roomSummary struct {
	RoomCode    string `json:"room_code"`
	PlayerCount int    `json:"player_count"`
	EntityCount int    `json:"entity_count"`
	Tick        uint64 `json:"tick"`
}

type listRoomsResponse struct {
	Rooms []roomSummary `json:"rooms"`
}

type scoreboardResponse struct {
	Entries []arena.ScoreboardEntry `json:"entries"`
}

// handleCreateRoom mints a new room and returns its code.
func (h *routerHandlers) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	rm := h.directory.Create()
	writeJSON(w, http.StatusCreated, createRoomResponse{RoomCode: rm.Code})
}

// handleListRooms returns a summary of every live room.
func (h *routerHandlers) handleListRooms(w http.ResponseWriter, r *http.Request) {
	codes := h.directory.List()
	rooms := make([]roomSummary, 0, len(codes))
	for _, code := range codes {
		rm, err := h.directory.Get(code)
		if err != nil {
			continue
		}
		rooms = append(rooms, roomSummary{
			RoomCode:    rm.Code,
			PlayerCount: rm.PlayerCount(),
			EntityCount: rm.Sim.EntityCount(),
			Tick:        rm.Sim.Tick(),
		})
	}
	writeJSON(w, http.StatusOK, listRoomsResponse{Rooms: rooms})
}

// handleGetRoom returns a single room's summary.
func (h *routerHandlers) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rm, err := h.directory.Get(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, roomSummary{
		RoomCode:    rm.Code,
		PlayerCount: rm.PlayerCount(),
		EntityCount: rm.Sim.EntityCount(),
		Tick:        rm.Sim.Tick(),
	})
}

// handleGetScoreboard returns the room's ranked player standings.
func (h *routerHandlers) handleGetScoreboard(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rm, err := h.directory.Get(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, scoreboardResponse{Entries: rm.Sim.Scoreboard()})
}

// handleDebugRender renders a room's current physics-debug overlay as a PNG.
// Operator-only: not part of the client-facing protocol.
func (h *routerHandlers) handleDebugRender(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rm, err := h.directory.Get(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	data := rm.Sim.GenerateDebugRenderData()
	w.Header().Set("Content-Type", "image/png")
	if err := debugviz.EncodePNG(w, data, arena.DefaultArenaWidth, arena.DefaultArenaHeight); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render debug image")
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a {"error": message} JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: message})
}
