package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/artpar/chartschema/adapters/metrics"
	"github.com/artpar/chartschema/core/formatter"
	"github.com/artpar/chartschema/core/registry"
	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/core/validation"
	"github.com/artpar/chartschema/pkg/jsonapi"
	"github.com/artpar/chartschema/ports"
)

// MaxLayoutBytes bounds the body of a validation request.
const MaxLayoutBytes = 10 << 20 // 10MB

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 1000
)

// contentTypes maps formatter names to response media types.
var contentTypes = map[string]string{
	"json":     "application/json",
	"yaml":     "application/yaml",
	"table":    "text/plain; charset=utf-8",
	"markdown": "text/markdown; charset=utf-8",
}

// SchemaHandler serves published schemas, layout validation and snapshot
// history.
type SchemaHandler struct {
	registry *registry.Registry
	store    ports.SnapshotStore
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// NewSchemaHandler creates a schema handler. store and m may be nil.
func NewSchemaHandler(reg *registry.Registry, store ports.SnapshotStore, m *metrics.Collector, logger zerolog.Logger) *SchemaHandler {
	return &SchemaHandler{
		registry: reg,
		store:    store,
		metrics:  m,
		logger:   logger.With().Str("component", "http").Logger(),
	}
}

// Routes returns the /schemas subrouter.
func (h *SchemaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Route("/{name}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/paths", h.Paths)
		r.Get("/attrs/*", h.Attr)
		r.Post("/validate", h.Validate)
		if h.store != nil {
			r.Get("/history", h.History)
			r.Get("/history/{id}", h.Snapshot)
		}
	})

	return r
}

// List returns every published schema.
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	p := h.registry.Current()
	if p == nil {
		jsonapi.WriteError(w, jsonapi.ErrServiceUnavailable(registry.ErrNotPublished.Error()))
		return
	}

	resources := make([]jsonapi.Resource, 0, len(p.Schemas))
	for _, name := range p.Names() {
		resources = append(resources, jsonapi.NewResource("schemas", name).
			Attr("revision", p.Revision).
			Attr("attributes", len(schema.Leaves(p.Schemas[name]))).
			Attr("built_at", p.BuiltAt).
			Link("/schemas/"+name).
			Build())
	}

	doc := jsonapi.NewDocument().
		DataCollection(resources).
		Meta("count", len(resources)).
		Meta("revision", p.Revision).
		Build()
	jsonapi.WriteDocument(w, http.StatusOK, doc)
}

// Get renders a whole schema in the format named by ?format= (default json).
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, name, g, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, formatter.SchemaDoc{Name: name, Revision: p.Revision, Node: g})
}

// Attr renders the subtree at the wildcard path. Both "realaxis/title"
// and "realaxis.title" address the same node.
func (h *SchemaHandler) Attr(w http.ResponseWriter, r *http.Request) {
	p, name, g, ok := h.lookup(w, r)
	if !ok {
		return
	}

	path := strings.Trim(chi.URLParam(r, "*"), "/")
	path = strings.ReplaceAll(path, "/", ".")

	n, found := schema.Lookup(g, path)
	if !found || path == "" {
		jsonapi.WriteError(w, jsonapi.ErrNotFoundWithID("attribute", path))
		return
	}
	h.render(w, r, formatter.SchemaDoc{Name: name, Revision: p.Revision, Path: path, Node: n})
}

// Paths lists the dotted key-paths of every attribute of a schema.
func (h *SchemaHandler) Paths(w http.ResponseWriter, r *http.Request) {
	p, name, g, ok := h.lookup(w, r)
	if !ok {
		return
	}

	paths := schema.Paths(g)
	if leavesOnly, _ := strconv.ParseBool(r.URL.Query().Get("leaves")); leavesOnly {
		leaves := schema.Leaves(g)
		filtered := make([]string, 0, len(leaves))
		for _, path := range paths {
			if _, ok := leaves[path]; ok {
				filtered = append(filtered, path)
			}
		}
		paths = filtered
	}

	jsonapi.WriteResource(w, http.StatusOK, jsonapi.NewResource("schema-paths", name).
		Attr("revision", p.Revision).
		Attr("paths", paths).
		Link("/schemas/"+name+"/paths").
		Build())
}

// Validate checks a JSON or YAML layout against a schema. With
// ?resolve=true a valid layout also comes back with defaults filled.
// An invalid layout is still a 200: the result is the resource.
func (h *SchemaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, name, g, ok := h.lookup(w, r)
	if !ok {
		return
	}

	layout, err := decodeLayout(r)
	if err != nil {
		var media unsupportedMediaType
		switch {
		case errors.As(err, &media):
			jsonapi.WriteError(w, jsonapi.ErrUnsupportedMediaType(string(media)))
			return
		case errors.Is(err, errLayoutTooLarge):
			jsonapi.WriteError(w, jsonapi.ErrPayloadTooLarge(err.Error()))
			return
		}
		jsonapi.WriteBadRequest(w, err.Error())
		return
	}

	result := validation.Validate(g, layout)
	if h.metrics != nil {
		h.metrics.ObserveValidation(name, result)
	}

	h.logger.Debug().
		Str("schema", name).
		Bool("valid", result.Valid).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("layout validated")

	errs := result.Errors
	if errs == nil {
		errs = []validation.ConstraintError{}
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []validation.Warning{}
	}

	id := middleware.GetReqID(r.Context())
	if id == "" {
		id = name
	}
	rb := jsonapi.NewResource("validation-results", id).
		Attr("schema", name).
		Attr("valid", result.Valid).
		Attr("errors", errs).
		Attr("warnings", warnings)
	// An invalid layout has no meaningful resolution.
	if resolve, _ := strconv.ParseBool(r.URL.Query().Get("resolve")); resolve && result.Valid {
		rb.Attr("resolved", validation.Resolve(g, layout))
	}

	jsonapi.WriteResource(w, http.StatusOK, rb.Build())
}

// History lists the snapshots of a schema, newest first. ?limit= bounds
// the list (default 20).
func (h *SchemaHandler) History(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			jsonapi.WriteError(w, jsonapi.ErrInvalidParameter("limit", fmt.Sprintf("must be between 1 and %d", maxHistoryLimit)))
			return
		}
		limit = n
	}

	snaps, err := h.store.List(r.Context(), name, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("schema", name).Msg("list snapshots failed")
		jsonapi.WriteInternalError(w, "failed to list snapshots")
		return
	}

	resources := make([]jsonapi.Resource, 0, len(snaps))
	for _, s := range snaps {
		resources = append(resources, jsonapi.NewResource("snapshots", s.ID).
			Attr("schema", s.Schema).
			Attr("revision", s.Revision).
			Attr("hash", s.Hash).
			Attr("size", s.Size).
			Attr("created_at", s.CreatedAt).
			Link(fmt.Sprintf("/schemas/%s/history/%s", name, s.ID)).
			Build())
	}
	jsonapi.WriteCollection(w, http.StatusOK, resources)
}

// Snapshot returns the recorded schema document of one snapshot.
func (h *SchemaHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id := chi.URLParam(r, "id")

	snap, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ports.ErrSnapshotNotFound) || (err == nil && snap.Schema != name) {
		jsonapi.WriteError(w, jsonapi.ErrNotFoundWithID("snapshot", id))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("get snapshot failed")
		jsonapi.WriteInternalError(w, "failed to load snapshot")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", strconv.Quote(snap.Hash))
	w.Header().Set("X-Schema-Revision", strconv.FormatUint(snap.Revision, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Document)
}

// lookup resolves the {name} URL parameter against the published schemas,
// writing the error response when it cannot.
func (h *SchemaHandler) lookup(w http.ResponseWriter, r *http.Request) (*registry.Published, string, schema.Group, bool) {
	name := chi.URLParam(r, "name")

	p := h.registry.Current()
	if p == nil {
		jsonapi.WriteError(w, jsonapi.ErrServiceUnavailable(registry.ErrNotPublished.Error()))
		return nil, name, schema.Group{}, false
	}
	g, ok := p.Schemas[name]
	if !ok {
		jsonapi.WriteError(w, jsonapi.ErrNotFoundWithID("schema", name))
		return nil, name, schema.Group{}, false
	}
	return p, name, g, true
}

func (h *SchemaHandler) render(w http.ResponseWriter, r *http.Request, doc formatter.SchemaDoc) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	f, ok := formatter.Get(format)
	if !ok {
		jsonapi.WriteError(w, jsonapi.ErrInvalidParameter("format",
			"must be one of "+strings.Join(formatter.List(), ", ")))
		return
	}

	var buf bytes.Buffer
	compact, _ := strconv.ParseBool(r.URL.Query().Get("compact"))
	if err := f.FormatSchema(&buf, doc, formatter.FormatOptions{Compact: compact}); err != nil {
		h.logger.Error().Err(err).Str("schema", doc.Name).Str("format", format).Msg("render schema failed")
		jsonapi.WriteInternalError(w, "failed to render schema")
		return
	}

	contentType, ok := contentTypes[format]
	if !ok {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Schema-Revision", strconv.FormatUint(doc.Revision, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

var errLayoutTooLarge = fmt.Errorf("layout exceeds %d bytes", MaxLayoutBytes)

type unsupportedMediaType string

func (u unsupportedMediaType) Error() string {
	return fmt.Sprintf("unsupported media type %q", string(u))
}

// decodeLayout reads a layout object from the request body. JSON is the
// default; application/yaml, application/x-yaml and text/yaml select YAML.
func decodeLayout(r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxLayoutBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxLayoutBytes {
		return nil, errLayoutTooLarge
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty layout")
	}

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, unsupportedMediaType(ct)
		}
		mediaType = mt
	}

	var layout map[string]any
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		if err := json.Unmarshal(body, &layout); err != nil {
			return nil, fmt.Errorf("parse json layout: %w", err)
		}
	case strings.HasSuffix(mediaType, "yaml"):
		if err := yaml.Unmarshal(body, &layout); err != nil {
			return nil, fmt.Errorf("parse yaml layout: %w", err)
		}
	default:
		return nil, unsupportedMediaType(mediaType)
	}

	if layout == nil {
		return nil, errors.New("layout must be an object")
	}
	return layout, nil
}
