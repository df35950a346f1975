package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/audit"
	"github.com/josuanbn/bl2u1/internal/convert"
	"github.com/josuanbn/bl2u1/internal/filament"
	"github.com/josuanbn/bl2u1/internal/session"
)

// maxUploadBytes caps uploaded package size.
const maxUploadBytes = 200 << 20

// downloadName is the file name offered to the browser for every converted
// package, independent of the session-scoped name on disk.
const downloadName = "Snapmaker_U1_Ready.3mf"

type filamentJSON struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

type analyzeResponse struct {
	SessionID string         `json:"session_id"`
	Filaments []filamentJSON `json:"filaments"`
}

type editJSON struct {
	Color string `json:"color"`
	Type  string `json:"type"`
}

type convertRequest struct {
	SessionID string              `json:"session_id"`
	Colors    map[string]editJSON `json:"colors"`
}

type convertResponse struct {
	DownloadURL string `json:"download_url"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Expired sessions are also swept opportunistically on every upload.
	s.sweep(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		analyzesTotal.WithLabelValues(statusError).Inc()
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		analyzesTotal.WithLabelValues(statusError).Inc()
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	id := session.NewID()
	inPath := s.sessions.InputPath(id)
	if err := saveUpload(file, inPath); err != nil {
		analyzesTotal.WithLabelValues(statusError).Inc()
		s.log.Error("save upload", zap.String("session", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not store the uploaded file")
		return
	}

	fils, err := s.converter().Analyze(inPath)
	if err != nil {
		os.Remove(inPath)
		var tooMany *convert.TooManyFilamentsError
		if errors.As(err, &tooMany) {
			analyzesTotal.WithLabelValues(statusRejected).Inc()
			s.auditEvent(audit.Event{Kind: audit.KindAnalyze, Session: id, File: header.Filename,
				Filaments: tooMany.Count, Error: "too many colors"})
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Too many colors (%d). The U1 supports a maximum of %d.", tooMany.Count, tooMany.Max))
			return
		}
		analyzesTotal.WithLabelValues(statusError).Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := s.sessions.Create(r.Context(), id, header.Filename, len(fils)); err != nil {
		os.Remove(inPath)
		analyzesTotal.WithLabelValues(statusError).Inc()
		s.log.Error("create session", zap.String("session", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not create session")
		return
	}

	analyzesTotal.WithLabelValues(statusOK).Inc()
	s.auditEvent(audit.Event{Kind: audit.KindAnalyze, Session: id, File: header.Filename, Filaments: len(fils)})

	resp := analyzeResponse{SessionID: id, Filaments: make([]filamentJSON, len(fils))}
	for i, f := range fils {
		resp.Filaments[i] = filamentJSON{ID: f.ID, Color: f.Color, Type: f.Type}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		conversionsTotal.WithLabelValues(statusError).Inc()
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		conversionsTotal.WithLabelValues(statusError).Inc()
		writeError(w, http.StatusBadRequest, "No session ID provided")
		return
	}

	sess, err := s.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			conversionsTotal.WithLabelValues(statusError).Inc()
			writeError(w, http.StatusNotFound, "Session expired or file not found")
			return
		}
		conversionsTotal.WithLabelValues(statusError).Inc()
		s.log.Error("load session", zap.String("session", req.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not load session")
		return
	}
	inPath := s.sessions.InputPath(sess.ID)
	if _, err := os.Stat(inPath); err != nil {
		conversionsTotal.WithLabelValues(statusError).Inc()
		writeError(w, http.StatusNotFound, "Session expired or file not found")
		return
	}

	edits := make(map[string]filament.Edit, len(req.Colors))
	for id, e := range req.Colors {
		edits[id] = filament.Edit{Color: e.Color, Type: e.Type}
	}

	outPath := s.sessions.OutputPath(sess.ID)
	start := time.Now()
	err = s.converter().Convert(r.Context(), inPath, edits, outPath)
	elapsed := time.Since(start)

	if err != nil {
		s.auditEvent(audit.Event{Kind: audit.KindConvert, Session: sess.ID,
			DurationMs: elapsed.Milliseconds(), Error: err.Error()})
		var tooMany *convert.TooManyFilamentsError
		switch {
		case errors.As(err, &tooMany):
			conversionsTotal.WithLabelValues(statusRejected).Inc()
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Too many colors (%d). The U1 supports a maximum of %d.", tooMany.Count, tooMany.Max))
		case errors.Is(err, convert.ErrTemplateNotFound):
			conversionsTotal.WithLabelValues(statusError).Inc()
			writeError(w, http.StatusInternalServerError, err.Error())
		case errors.Is(err, convert.ErrProjectSettings):
			conversionsTotal.WithLabelValues(statusError).Inc()
			writeError(w, http.StatusInternalServerError, "Could not read original project settings")
		default:
			conversionsTotal.WithLabelValues(statusError).Inc()
			s.log.Error("convert", zap.String("session", sess.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Conversion failed: "+err.Error())
		}
		return
	}

	if err := s.sessions.SetState(r.Context(), sess.ID, session.StateConverted); err != nil {
		s.log.Warn("mark converted", zap.String("session", sess.ID), zap.Error(err))
	}

	conversionsTotal.WithLabelValues(statusOK).Inc()
	conversionDuration.Observe(elapsed.Seconds())
	s.auditEvent(audit.Event{Kind: audit.KindConvert, Session: sess.ID,
		Filaments: len(edits), DurationMs: elapsed.Milliseconds()})

	writeJSON(w, http.StatusOK, convertResponse{
		DownloadURL: "/download/" + session.OutputName(sess.ID),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		writeError(w, http.StatusBadRequest, "Invalid file name")
		return
	}
	path := filepath.Join(s.sessions.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleFilamentTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalogs.Current().Profiles())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) auditEvent(evt audit.Event) {
	if err := s.audit.Emit(evt); err != nil {
		s.log.Warn("audit emit", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out; an encode failure has nowhere to go.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func saveUpload(src io.Reader, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
