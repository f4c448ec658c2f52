package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsubst/subst/pkg/coerce"
	"github.com/getsubst/subst/pkg/document"
	"github.com/getsubst/subst/pkg/subst"
	"github.com/getsubst/subst/pkg/util"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  int    `json:"uptime"`
}

// RenderRequest is the body of POST /render. Template may be a JSON
// object, an array of objects, or a string; Scopes are consulted in
// order ahead of the server's global variable store.
type RenderRequest struct {
	Template     json.RawMessage   `json:"template"`
	Shape        string            `json:"shape,omitempty"`
	Scopes       []json.RawMessage `json:"scopes,omitempty"`
	Default      any               `json:"default,omitempty"`
	Recurse      *bool             `json:"recurse,omitempty"`
	IncludeNulls bool              `json:"includeNulls,omitempty"`
	ScopeType    string            `json:"scopeType,omitempty"`
}

// RenderResponse is the body of a successful POST /render.
type RenderResponse struct {
	Result any `json:"result"`
}

// VarResponse is the body of the single-variable endpoints.
type VarResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{Error: errCode, Message: message})
}

// handleHealth handles GET /health.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: a.version,
		Uptime:  a.Uptime(),
	})
}

// handleRender handles POST /render.
func (a *API) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON in request body")
		return
	}
	req.Template = bytes.TrimSpace(req.Template)
	if len(req.Template) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "template is required")
		return
	}

	sel, err := subst.ParseSelector(req.ScopeType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	scopes := make([]*document.Document, 0, len(req.Scopes))
	for _, raw := range req.Scopes {
		scope, err := document.ParseJSON(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "each scope must be a JSON object")
			return
		}
		scopes = append(scopes, scope)
	}

	// Nested documents recurse unless the caller opts out.
	recurse := req.Recurse == nil || *req.Recurse

	result, err := a.render(req, sel, recurse, scopes)
	if err != nil {
		var convErr *coerce.ConversionError
		switch {
		case errors.As(err, &convErr):
			writeError(w, http.StatusUnprocessableEntity, "conversion_error", convErr.Error())
		case errors.Is(err, coerce.ErrShapeUnspecified):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			a.log.Error("render failed", "error", err,
				"template", util.Truncate(string(req.Template), 0))
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{Result: result})
}

// render dispatches on the JSON type of the template.
func (a *API) render(req RenderRequest, sel subst.Selector, recurse bool, scopes []*document.Document) (any, error) {
	template := req.Template

	switch template[0] {
	case '{':
		doc, err := document.ParseJSON(template)
		if err != nil {
			return nil, err
		}
		return a.engine.SubstituteDocument(doc, req.Default, recurse, req.IncludeNulls, sel, scopes...)
	case '[':
		docs, err := document.DecodeJSONList(bytes.NewReader(template))
		if err != nil {
			return nil, err
		}
		out, err := a.engine.SubstituteDocuments(docs, req.Default, recurse, req.IncludeNulls, sel, scopes...)
		if err != nil {
			return nil, err
		}
		return out, nil
	case '"':
		var text string
		if err := json.Unmarshal(template, &text); err != nil {
			return nil, err
		}
		shape := coerce.ShapeString
		if req.Shape != "" {
			var err error
			shape, err = coerce.ParseShape(req.Shape)
			if err != nil {
				return nil, err
			}
		}
		return a.engine.Substitute(text, shape, req.Default, sel, scopes...)
	default:
		return nil, errors.New("template must be a JSON object, array of objects, or string")
	}
}

// handleListVars handles GET /vars.
func (a *API) handleListVars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"vars":  a.vars.Snapshot(),
		"count": a.vars.Len(),
	})
}

// handleGetVar handles GET /vars/{key}.
func (a *API) handleGetVar(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, ok := a.vars.Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no such variable")
		return
	}
	writeJSON(w, http.StatusOK, VarResponse{Key: key, Value: value})
}

// handlePutVar handles PUT /vars/{key}.
func (a *API) handlePutVar(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var body struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON in request body")
		return
	}
	a.vars.Set(key, body.Value)
	writeJSON(w, http.StatusOK, VarResponse{Key: key, Value: body.Value})
}

// handleDeleteVar handles DELETE /vars/{key}.
func (a *API) handleDeleteVar(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !a.vars.Exists(key) {
		writeError(w, http.StatusNotFound, "not_found", "no such variable")
		return
	}
	a.vars.Delete(key)
	w.WriteHeader(http.StatusNoContent)
}
