package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hailam/fenboard/internal/board"
	"github.com/hailam/fenboard/internal/render"
	"github.com/hailam/fenboard/internal/storage"
)

const maxBodyBytes = 4 << 10

var errMissingFEN = errors.New("missing fen")

type createRequest struct {
	FEN string `json:"fen"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// positionFromQuery decodes the fen query parameter, writing a 400 on failure.
func (s *Server) positionFromQuery(w http.ResponseWriter, r *http.Request) (board.Position, bool) {
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		writeError(w, http.StatusBadRequest, errMissingFEN)
		return board.Position{}, false
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		s.log.Debugw("rejected fen", "fen", fen, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return board.Position{}, false
	}
	return pos, true
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	pos, ok := s.positionFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newPositionView(pos))
}

func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	pos, ok := s.positionFromQuery(w, r)
	if !ok {
		return
	}
	data, err := s.renderer.PNG(pos)
	if err != nil {
		s.log.Errorw("render failed", "error", err)
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(data); err != nil {
		s.log.Warnw("write png", "error", err)
	}
}

func (s *Server) handleRenderText(w http.ResponseWriter, r *http.Request) {
	pos, ok := s.positionFromQuery(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := render.WriteText(w, pos); err != nil {
		s.log.Warnw("write text", "error", err)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if req.FEN == "" {
		writeError(w, http.StatusBadRequest, errMissingFEN)
		return
	}

	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, created, err := s.store.Save(pos)
	if err != nil {
		s.log.Errorw("save position", "fen", req.FEN, "error", err)
		writeInternalError(w)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		s.log.Infow("position stored", "id", rec.ID, "fen", rec.FEN)
	}
	writeJSON(w, status, newRecordView(rec))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List()
	if err != nil {
		s.log.Errorw("list positions", "error", err)
		writeInternalError(w)
		return
	}
	views := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, newRecordView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	pos, err := rec.Position()
	if err != nil {
		s.log.Errorw("decode stored position", "id", id, "error", err)
		writeInternalError(w)
		return
	}

	view := newRecordView(rec)
	pv := newPositionView(pos)
	view.Position = &pv
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.Infow("position deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.log.Errorw("storage", "error", err)
	writeInternalError(w)
}
