package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/displaylist"
	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/pipeline"
)

// layoutRequest is the body of POST /v1/layout. Exactly one of Design and
// Document is set.
type layoutRequest struct {
	Design   json.RawMessage  `json:"design,omitempty"`
	Document string           `json:"document,omitempty"`
	Format   string           `json:"format,omitempty"`
	Options  pipeline.Options `json:"options"`
}

type layoutResponse struct {
	DesignHash string                   `json:"design_hash"`
	LayoutHash string                   `json:"layout_hash"`
	Cached     bool                     `json:"cached"`
	Layout     *displaylist.DisplayList `json:"layout"`
	Stats      displaylist.Stats        `json:"stats"`

	// Artifacts holds the non-json artifacts. Text formats are returned
	// as-is, binary ones base64-encoded.
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	limit := s.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req layoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	d, err := s.decodeDesign(r, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.merge(req.Options)
	opts.Design = d
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := layoutResponse{
		DesignHash: res.DesignHash,
		LayoutHash: res.LayoutHash,
		Cached:     res.CacheInfo.LayoutHit,
		Layout:     res.Layout,
		Stats:      res.Layout.Stats(),
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		if format == pipeline.FormatBSON {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		} else {
			resp.Artifacts[format] = string(data)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeDesign(r *http.Request, req layoutRequest) (*design.Design, error) {
	hasDesign := len(req.Design) > 0 && string(req.Design) != "null"
	switch {
	case hasDesign && req.Document != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either design or document, not both")
	case hasDesign:
		return pipeline.LoadDesign(r.Context(), bytes.NewReader(req.Design), design.FormatJSON)
	case req.Document != "":
		format := design.FormatJSON
		if req.Format != "" {
			f, err := design.ParseFormat(req.Format)
			if err != nil {
				return nil, err
			}
			format = f
		}
		return pipeline.LoadDesign(r.Context(), strings.NewReader(req.Document), format)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "design or document is required")
}

// merge overlays request options on the server defaults. Numeric fields
// and formats override when set; switches are enabled by either side.
func (s *Server) merge(req pipeline.Options) pipeline.Options {
	opts := s.defaults
	opts.Logger = nil
	opts.OmitEmptySpace = opts.OmitEmptySpace || req.OmitEmptySpace
	opts.ForceMinWidth = opts.ForceMinWidth || req.ForceMinWidth
	opts.Refresh = req.Refresh
	if req.Scale != 0 {
		opts.Scale = req.Scale
	}
	if req.MinWidth != 0 {
		opts.MinWidth = req.MinWidth
	}
	if req.MinGap != 0 {
		opts.MinGap = req.MinGap
	}
	if req.MaxReorderPasses != 0 {
		opts.MaxReorderPasses = req.MaxReorderPasses
	}
	if req.Priorities != nil {
		opts.Priorities = req.Priorities
	}
	if len(req.Formats) > 0 {
		opts.Formats = req.Formats
	}
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.New(errors.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path))
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	if errors.IsStructural(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidURI:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func designFormats() []string {
	out := make([]string, len(design.Formats))
	for i, f := range design.Formats {
		out[i] = string(f)
	}
	return out
}
