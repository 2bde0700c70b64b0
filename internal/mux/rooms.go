package mux

import "net/http"

type createRoomResponse struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
}

func (m *Mux) postRooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := m.pitBoss.CreateRoom()
		writeJSON(w, http.StatusCreated, createRoomResponse{
			Success:  true,
			RoomCode: code,
		})
	}
}
