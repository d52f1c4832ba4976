// Package resttest is an in-memory fake of the sportadmin backend HTTP
// contract. Tests point the SDK at it instead of a live service; it honors
// pagination, search, ordering, active/relation filters, uniqueness
// conflicts, and referential delete guards.
package resttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultPageSize = 20

// maxPageSize is the server-side upper bound on page_size.
const maxPageSize = 100

// Record is one stored entity. Fields mirror the wire shape; relation
// fields hold the parent record's id.
type Record map[string]any

type resourceState struct {
	records []Record
	nextID  int
}

// Server is the fake backend. Every handler takes the one lock; contention
// is irrelevant at test scale.
type Server struct {
	mu        sync.Mutex
	resources map[string]*resourceState
	requests  map[string]int

	// forced, when set, answers the next request with a canned failure.
	forcedStatus int
	forcedBody   string

	lastAuthorization string

	httpServer *httptest.Server
}

// relationField maps a resource to the field naming its parent, for
// by-{relation} routes and referential delete checks.
var relationField = map[string]string{
	"leagues": "country",
	"teams":   "league",
	"seasons": "league",
}

// childResource is the reverse mapping used by delete guards.
var childResource = map[string]string{
	"countries": "leagues",
	"leagues":   "teams",
}

// New starts the fake backend. Callers own the returned server and must
// Close it.
func New() *Server {
	s := &Server{
		resources: map[string]*resourceState{
			"countries": {nextID: 1},
			"leagues":   {nextID: 1},
			"teams":     {nextID: 1},
			"seasons":   {nextID: 1},
		},
		requests: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Route("/api/{resource}", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/active/", s.handleActive)
		r.Get("/by-{relation}/{relatedID}/", s.handleByRelation)
		r.Get("/{id}/", s.handleDetail)
		r.Put("/{id}/", s.handleReplace)
		r.Patch("/{id}/", s.handlePatch)
		r.Delete("/{id}/", s.handleDelete)
	})

	s.httpServer = httptest.NewServer(s.withIntercepts(r))
	return s
}

func (s *Server) URL() string { return s.httpServer.URL }

func (s *Server) Close() { s.httpServer.Close() }

// Seed inserts a record with the given id, bypassing validation.
func (s *Server) Seed(resource string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.resources[resource]
	if rec["id"] == nil {
		rec["id"] = strconv.Itoa(state.nextID)
		state.nextID++
	}
	if rec["created_at"] == nil {
		rec["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	if rec["updated_at"] == nil {
		rec["updated_at"] = rec["created_at"]
	}
	state.records = append(state.records, rec)
}

// FailNext makes the next request fail with the given status and raw JSON
// body, then restores normal behavior.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedStatus = status
	s.forcedBody = body
}

// Requests reports how many requests hit a method+path pair, e.g.
// ("GET", "/api/leagues/").
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// LastAuthorization returns the Authorization header of the most recent
// request.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuthorization
}

func (s *Server) withIntercepts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.lastAuthorization = r.Header.Get("Authorization")
		forced := s.forcedStatus
		body := s.forcedBody
		s.forcedStatus = 0
		s.forcedBody = ""
		s.mu.Unlock()

		if forced != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(forced)
			_, _ = w.Write([]byte(body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) state(r *http.Request) (*resourceState, string, bool) {
	name := chi.URLParam(r, "resource")
	state, ok := s.resources[name]
	return state, name, ok
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	matched := filterRecords(state.records, name, r.URL.Query())

	if ordering := r.URL.Query().Get("ordering"); ordering != "" {
		sortRecords(matched, ordering)
	}

	page := intParam(r, "page", 1)
	pageSize := intParam(r, "page_size", defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 || pageSize < 1 {
		writeError(w, http.StatusBadRequest, "invalid pagination parameters")
		return
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	var pageRecords []Record
	if start < len(matched) {
		if end > len(matched) {
			end = len(matched)
		}
		pageRecords = matched[start:end]
	}

	results := make([]Record, 0, len(pageRecords))
	for _, rec := range pageRecords {
		results = append(results, s.listShape(name, rec))
	}

	var next, previous *string
	if end < len(matched) {
		u := fmt.Sprintf("/api/%s/?page=%d", name, page+1)
		next = &u
	}
	if page > 1 {
		u := fmt.Sprintf("/api/%s/?page=%d", name, page-1)
		previous = &u
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(matched),
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	out := make([]Record, 0)
	for _, rec := range state.records {
		if active, _ := rec["is_active"].(bool); active {
			out = append(out, s.listShape(name, rec))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleByRelation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	relation := chi.URLParam(r, "relation")
	relatedID := chi.URLParam(r, "relatedID")
	if relationField[name] != relation {
		writeError(w, http.StatusNotFound, "unknown relation")
		return
	}
	if s.findRecord(parentResource(name), relatedID) == nil {
		writeError(w, http.StatusNotFound, "unknown relation id")
		return
	}
	out := make([]Record, 0)
	for _, rec := range state.records {
		if rec[relation] == relatedID {
			out = append(out, s.listShape(name, rec))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	rec := s.findRecord(name, chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, s.detailShape(name, rec))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	var payload Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if fields := s.validate(name, payload, ""); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}
	if s.duplicate(name, payload, "") {
		writeError(w, http.StatusConflict, "duplicate entry")
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rec := Record{}
	for k, v := range payload {
		rec[k] = v
	}
	rec["id"] = strconv.Itoa(state.nextID)
	state.nextID++
	rec["created_at"] = now
	rec["updated_at"] = now
	state.records = append(state.records, rec)

	writeJSON(w, http.StatusCreated, s.detailShape(name, rec))
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	s.applyUpdate(w, r, true)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	s.applyUpdate(w, r, false)
}

func (s *Server) applyUpdate(w http.ResponseWriter, r *http.Request, replace bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	id := chi.URLParam(r, "id")
	rec := s.findRecord(name, id)
	if rec == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var payload Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if replace {
		if fields := s.validate(name, payload, id); len(fields) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
			return
		}
		// Full replacement: mutable fields not supplied reset to zero.
		for k := range rec {
			switch k {
			case "id", "created_at", "updated_at":
			default:
				delete(rec, k)
			}
		}
	}
	for k, v := range payload {
		switch k {
		case "id", "created_at", "updated_at":
		default:
			rec[k] = v
		}
	}
	rec["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	writeJSON(w, http.StatusOK, s.detailShape(name, rec))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, name, ok := s.state(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	id := chi.URLParam(r, "id")
	idx := -1
	for i, rec := range state.records {
		if rec["id"] == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// Referential guard: a parent with children cannot be deleted.
	if child, ok := childResource[name]; ok {
		field := relationField[child]
		for _, rec := range s.resources[child].records {
			if rec[field] == id {
				writeError(w, http.StatusConflict, "record is referenced by "+child)
				return
			}
		}
	}

	state.records = append(state.records[:idx], state.records[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findRecord(resource, id string) Record {
	state, ok := s.resources[resource]
	if !ok {
		return nil
	}
	for _, rec := range state.records {
		if rec["id"] == id {
			return rec
		}
	}
	return nil
}

// validate enforces the server-mandatory fields per resource.
func (s *Server) validate(resource string, payload Record, _ string) map[string][]string {
	required := map[string][]string{
		"countries": {"name", "code"},
		"leagues":   {"name", "country"},
		"teams":     {"name", "league"},
		"seasons":   {"label", "league", "start_date", "end_date"},
	}[resource]

	fields := make(map[string][]string)
	for _, f := range required {
		v, ok := payload[f]
		if !ok {
			fields[f] = append(fields[f], "this field is required")
			continue
		}
		if str, isStr := v.(string); isStr && strings.TrimSpace(str) == "" {
			fields[f] = append(fields[f], "this field may not be blank")
		}
	}
	if rel, ok := relationField[resource]; ok {
		if id, isStr := payload[rel].(string); isStr && id != "" {
			if s.findRecord(parentResource(resource), id) == nil {
				fields[rel] = append(fields[rel], "unknown "+rel)
			}
		}
	}
	return fields
}

// duplicate enforces the uniqueness constraints: name within the same
// parent, and external_id globally per resource.
func (s *Server) duplicate(resource string, payload Record, excludeID string) bool {
	rel := relationField[resource]
	for _, rec := range s.resources[resource].records {
		if rec["id"] == excludeID {
			continue
		}
		if rec["name"] != nil && rec["name"] == payload["name"] {
			if rel == "" || rec[rel] == payload[rel] {
				return true
			}
		}
		if ext, ok := payload["external_id"].(string); ok && ext != "" && rec["external_id"] == ext {
			return true
		}
	}
	return false
}

// listShape flattens relations into id + denormalized name fields.
func (s *Server) listShape(resource string, rec Record) Record {
	out := Record{}
	for k, v := range rec {
		if k == "created_at" || k == "updated_at" {
			continue
		}
		out[k] = v
	}
	switch resource {
	case "leagues":
		if country := s.findRecord("countries", str(rec["country"])); country != nil {
			out["country_name"] = country["name"]
		}
	case "teams":
		if league := s.findRecord("leagues", str(rec["league"])); league != nil {
			out["league_name"] = league["name"]
			if country := s.findRecord("countries", str(league["country"])); country != nil {
				out["country_name"] = country["name"]
			}
		}
	case "seasons":
		if league := s.findRecord("leagues", str(rec["league"])); league != nil {
			out["league_name"] = league["name"]
		}
	}
	return out
}

// detailShape nests full relation objects in place of id fields.
func (s *Server) detailShape(resource string, rec Record) Record {
	out := Record{}
	for k, v := range rec {
		out[k] = v
	}
	rel, ok := relationField[resource]
	if !ok {
		return out
	}
	parent := s.findRecord(parentResource(resource), str(rec[rel]))
	if parent != nil {
		out[rel] = s.detailShape(parentResource(resource), parent)
	}
	return out
}

func parentResource(resource string) string {
	switch resource {
	case "leagues":
		return "countries"
	case "teams", "seasons":
		return "leagues"
	}
	return ""
}

func filterRecords(records []Record, resource string, query map[string][]string) []Record {
	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if !matches(rec, resource, query) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched
}

func matches(rec Record, resource string, query map[string][]string) bool {
	get := func(name string) string {
		if vs, ok := query[name]; ok && len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	if search := get("search"); search != "" {
		name, _ := rec["name"].(string)
		label, _ := rec["label"].(string)
		ext, _ := rec["external_id"].(string)
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(name), needle) &&
			!strings.Contains(strings.ToLower(label), needle) &&
			!strings.Contains(strings.ToLower(ext), needle) {
			return false
		}
	}
	if v := get("is_active"); v != "" {
		active, _ := rec["is_active"].(bool)
		if strconv.FormatBool(active) != v {
			return false
		}
	}
	if v := get("is_current"); v != "" {
		current, _ := rec["is_current"].(bool)
		if strconv.FormatBool(current) != v {
			return false
		}
	}
	for _, field := range []string{"country", "league"} {
		if v := get(field); v != "" {
			if field == "country" && resource == "teams" {
				// Teams filter by country transitively through their league;
				// the fake keeps a denormalized country field when seeded.
				if rec["country"] != v {
					return false
				}
				continue
			}
			if str(rec[field]) != v {
				return false
			}
		}
	}
	return true
}

func sortRecords(records []Record, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	sort.SliceStable(records, func(i, j int) bool {
		a, b := str(records[i][field]), str(records[j][field])
		if desc {
			return a > b
		}
		return a < b
	})
}

func intParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
