// Package session tracks per-conversation browse state: the current tag
// selection, search term, sort and page, plus a request sequence that lets
// a finished search detect it has been superseded by a newer one.
package session

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/hayloft/cardstable-mcp/internal/search"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// DefaultID names the session used when a tool call does not pick one.
const DefaultID = "default"

// Session is one browse session. State transitions run under the mutex;
// the search itself runs outside it, so a slow fetch never blocks other
// operations on the session.
type Session struct {
	id string

	mu          sync.Mutex
	selected    []string
	term        string
	sort        types.SortKey // empty until the session picks one
	page        int
	nsfwVisible bool   // last effective visibility; a flip resets the page
	seq         uint64 // bumped per search; stale completions are discarded
}

func newSession(id string) *Session {
	return &Session{id: id, page: 1}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Params carries one search invocation's inputs. Pointer fields override
// the session state; nil keeps the current value.
type Params struct {
	Term        *string
	Sort        *types.SortKey
	Page        *int
	PageSize    int           // from settings
	DefaultSort types.SortKey // from settings, used until the session picks a sort
	NSFWVisible bool          // from settings
	Refresh     bool
}

// Search merges the invocation onto the session state, bumps the request
// sequence, runs the engine, and commits the outcome. If a newer search
// started while this one was fetching, the result still goes back to its
// caller but the session state stays with the newer request.
func (s *Session) Search(ctx context.Context, eng *search.Engine, p Params) (*types.SearchResponse, error) {
	req, seq := s.prepare(p)

	resp, err := eng.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	s.commit(seq, resp)
	return resp, nil
}

// prepare applies overrides under the lock and snapshots a request. A
// changed term or a flipped NSFW visibility resets the page to 1; a
// changed sort does not.
func (s *Session) prepare(p Params) (*types.SearchRequest, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Term != nil {
		term := strings.TrimSpace(*p.Term)
		if term != s.term {
			s.term = term
			s.page = 1
		}
	}
	if p.NSFWVisible != s.nsfwVisible {
		s.nsfwVisible = p.NSFWVisible
		s.page = 1
	}
	if p.Sort != nil && types.ValidSortKey(*p.Sort) {
		s.sort = *p.Sort
	}
	if p.Page != nil && *p.Page >= 1 {
		s.page = *p.Page
	}

	s.seq++

	sortKey := s.sort
	if sortKey == "" {
		sortKey = p.DefaultSort
	}

	req := &types.SearchRequest{
		SelectedIDs: slices.Clone(s.selected),
		Term:        s.term,
		Sort:        sortKey,
		Page:        s.page,
		PageSize:    p.PageSize,
		NSFWVisible: p.NSFWVisible,
		Refresh:     p.Refresh,
	}
	return req, s.seq
}

// commit publishes a search outcome if it is still the newest one.
func (s *Session) commit(seq uint64, resp *types.SearchResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		slog.Debug("discarding superseded search result",
			slog.String("session_id", s.id),
			slog.Uint64("seq", seq),
			slog.Uint64("current", s.seq),
		)
		return
	}

	// Pagination backoff may have landed on an earlier page; the session
	// follows it so the next search starts from a page with content.
	s.page = resp.Page
}

// Select edits the selection: clear first, then removals, then additions
// in order. Duplicates are dropped case-insensitively. Any change resets
// the page to 1. Returns the selection after the edit.
func (s *Session) Select(add, remove []string, clear bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := slices.Clone(s.selected)

	if clear {
		s.selected = nil
	}
	for _, id := range remove {
		folded := foldID(id)
		s.selected = slices.DeleteFunc(s.selected, func(have string) bool {
			return foldID(have) == folded
		})
	}
	for _, id := range add {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !containsFold(s.selected, id) {
			s.selected = append(s.selected, id)
		}
	}

	if !slices.Equal(before, s.selected) {
		s.page = 1
	}
	return slices.Clone(s.selected)
}

// View reports the session state.
func (s *Session) View() types.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.SessionView{
		SessionID:   s.id,
		SelectedIDs: slices.Clone(s.selected),
		Term:        s.term,
		Sort:        s.sort,
		Page:        s.page,
		NSFWVisible: s.nsfwVisible,
		Seq:         s.seq,
	}
}

func foldID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func containsFold(ids []string, id string) bool {
	folded := foldID(id)
	for _, have := range ids {
		if foldID(have) == folded {
			return true
		}
	}
	return false
}

// Registry hands out sessions by id, creating them on first use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it if needed. The empty id maps
// to DefaultID.
func (r *Registry) Get(id string) *Session {
	if id == "" {
		id = DefaultID
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s = newSession(id)
	r.sessions[id] = s
	return s
}

// Reset replaces the session for id with a fresh one and returns it.
func (r *Registry) Reset(id string) *Session {
	if id == "" {
		id = DefaultID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s := newSession(id)
	r.sessions[id] = s
	return s
}

// IDs lists the known session ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
