package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/umlpad/pkg/buildinfo"
	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/io"
	"github.com/matzehuels/umlpad/pkg/pipeline"
	"github.com/matzehuels/umlpad/pkg/render"
	"github.com/matzehuels/umlpad/pkg/templates"
)

// =============================================================================
// Meta
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templates.All())
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	t, ok := templates.Get(key)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeFileNotFound, "unknown template %q", key), "")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// =============================================================================
// Stateless Render
// =============================================================================

type renderRequest struct {
	Source string `json:"source"`
	Format string `json:"format"`
}

// handleRender renders one request outside the coordinator. Diagram errors
// are a normal outcome and return 200 with ok=false.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err, "")
		return
	}
	if err := errors.ValidateSource(req.Source); err != nil {
		writeError(w, err, "")
		return
	}

	result := s.renderer.Render(r.Context(), pipeline.Request{
		ID:     s.nextID.Add(1),
		Source: req.Source,
		Format: format,
	})
	writeJSON(w, http.StatusOK, result.Response())
}

// =============================================================================
// Coordinated Render
// =============================================================================

type sourceRequest struct {
	Source string `json:"source"`
}

type formatRequest struct {
	Format string `json:"format"`
}

// stateResponse is the JSON view of the coordinator state.
type stateResponse struct {
	pipeline.State
	Current    render.Response `json:"current"`
	HasPreview bool            `json:"hasPreview"`
	Path       string          `json:"path,omitempty"`
}

func (s *Server) state() stateResponse {
	st := s.coord.Snapshot()
	return stateResponse{
		State:      st,
		Current:    st.Current.Response(),
		HasPreview: st.LastSuccess.OK(),
		Path:       s.currentPath(),
	}
}

func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	if err := errors.ValidateSource(req.Source); err != nil {
		writeError(w, err, "")
		return
	}
	s.coord.SetText(req.Source)
	writeJSON(w, http.StatusAccepted, s.state())
}

func (s *Server) handleSetFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err, "")
		return
	}
	s.coord.SetFormat(format)
	writeJSON(w, http.StatusAccepted, s.state())
}

func (s *Server) handleRenderNow(w http.ResponseWriter, r *http.Request) {
	s.coord.RenderNow()
	writeJSON(w, http.StatusAccepted, s.state())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

// handlePreview serves the current image, or the last successful one while
// the current result is a failure.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	st := s.coord.Snapshot()
	img := st.Current
	if !img.OK() {
		img = st.LastSuccess
	}
	if !img.OK() {
		http.Error(w, "no preview", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", img.Format.MIMEType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Image)
}

// =============================================================================
// Files
// =============================================================================

type openRequest struct {
	Path string `json:"path"`
}

type saveRequest struct {
	Content *string `json:"content"`
	Path    string  `json:"path"`
}

type exportRequest struct {
	Data   string `json:"data"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

// fileError reports a failed file operation. Render state is unaffected.
func fileError(w http.ResponseWriter, op string, err error) {
	writeError(w, err, io.Notice(op, err))
}

// handleOpen reads a document, makes it the coordinator's text and renders
// it without waiting for the debounce.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	res, err := io.Open(r.Context(), io.FixedChooser{Path: req.Path})
	if err != nil {
		fileError(w, io.OpOpen, err)
		return
	}
	if !res.Canceled {
		s.coord.SetText(res.Content)
		s.coord.RenderNow()
		s.remember(r.Context(), res.Path)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSave writes the document. With a path it saves there (save as);
// without one it saves to the open document's path. Content defaults to the
// coordinator's text.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	content := s.coord.Snapshot().Source
	if req.Content != nil {
		content = *req.Content
	}

	var (
		res io.FileResult
		err error
	)
	if req.Path != "" {
		res, err = io.SaveAs(r.Context(), io.FixedChooser{Path: req.Path}, content, io.DefaultDocumentName)
	} else {
		res, err = io.Save(r.Context(), io.FixedChooser{}, content, s.currentPath())
	}
	if err != nil {
		fileError(w, io.OpSave, err)
		return
	}
	if !res.Canceled {
		s.remember(r.Context(), res.Path)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExport writes an image. Without data it exports the current preview.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	data := req.Data
	var format render.Format
	if req.Format != "" {
		f, err := render.ParseFormat(req.Format)
		if err != nil {
			writeError(w, err, "")
			return
		}
		format = f
	}
	if data == "" {
		st := s.coord.Snapshot()
		img := st.Current
		if !img.OK() {
			img = st.LastSuccess
		}
		if !img.OK() {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "nothing to export"), "")
			return
		}
		data = img.DataURI()
		if format == "" {
			format = img.Format
		}
	}
	if format == "" {
		if f, ok := io.DataURIFormat(data); ok {
			format = f
		} else {
			format = render.DefaultFormat
		}
	}

	res, err := io.Export(r.Context(), io.FixedChooser{Path: req.Path}, data, format, "")
	if err != nil {
		fileError(w, io.OpExport, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
