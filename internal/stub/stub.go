// Package stub is a small in-memory stand-in for the Matcha backend, used
// for local development and integration tests. It speaks the same envelope
// as the real API but holds everything in maps; nothing survives a restart.
package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha-app/matcha-tui/internal/types"
)

type Server struct {
	mu            sync.Mutex
	profiles      []types.CandidateProfile
	own           types.OwnProfile
	likes         map[int]bool
	likedBack     map[int]bool // candidates that "like us back" -> connections
	tags          []types.Tag
	nextTagID     int
	notifications []types.Notification
	messages      map[int][]types.Message
	nextMessageID int
}

// New seeds the stub with the given candidate profiles. Every third
// candidate likes us back, so likes turn into connections deterministically.
func New(profiles []types.CandidateProfile) *Server {
	s := &Server{
		profiles:      profiles,
		likes:         map[int]bool{},
		likedBack:     map[int]bool{},
		messages:      map[int][]types.Message{},
		nextTagID:     1,
		nextMessageID: 1,
		own: types.OwnProfile{
			ID:         1000,
			Email:      "me@example.test",
			FirstName:  "Me",
			Age:        28,
			FameRating: 13.9,
		},
	}
	for i, p := range profiles {
		if i%3 == 0 {
			s.likedBack[p.ID] = true
		}
	}
	return s
}

// Routes wires the REST surface the client consumes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/health", s.health)
	r.Get("/api/browse", s.browse)
	r.Post("/api/like/{id}", s.like)
	r.Delete("/api/like/{id}", s.unlike)
	r.Get("/api/profile", s.getProfile)
	r.Post("/api/profile", s.updateProfile)
	r.Get("/api/tags", s.listTags)
	r.Post("/api/tags", s.addTag)
	r.Delete("/api/tags/{id}", s.removeTag)
	r.Get("/api/notifications", s.listNotifications)
	r.Post("/api/notifications/read", s.markNotificationsRead)
	r.Get("/api/messages/{id}", s.listMessages)
	r.Post("/api/messages/{id}", s.sendMessage)
	r.Get("/api/connections", s.connections)
	r.Get("/api/user/{id}", s.user)
	return r
}

// --- Response helpers ---

func writeOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok", "data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// --- Handlers ---

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, nil)
}

func (s *Server) browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	minAge, _ := strconv.Atoi(q.Get("minAge"))
	maxAge, _ := strconv.Atoi(q.Get("maxAge"))
	fameMin, _ := strconv.ParseFloat(q.Get("fameRatingMin"), 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]types.CandidateProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if minAge > 0 && p.Age < minAge {
			continue
		}
		if maxAge > 0 && p.Age > maxAge {
			continue
		}
		if p.FameRating < fameMin {
			continue
		}
		matched = append(matched, p)
	}
	if q.Get("sort") == "age" {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Age < matched[j].Age })
	}

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	writeOK(w, map[string]any{"profiles": matched[offset:end]})
}

func (s *Server) like(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.profile(id); !found {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	s.likes[id] = true
	if s.likedBack[id] {
		s.notifications = append(s.notifications, types.Notification{
			ID:        uuid.NewString(),
			Type:      "match",
			FromID:    id,
			Message:   "It's a match!",
			CreatedAt: time.Now(),
		})
	}
	writeOK(w, nil)
}

func (s *Server) unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	s.mu.Lock()
	delete(s.likes, id)
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeOK(w, map[string]any{"profile": s.own})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var p types.OwnProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.mu.Lock()
	p.ID = s.own.ID
	p.FameRating = s.own.FameRating // server-owned, never client-set
	s.own = p
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := s.tags
	if tags == nil {
		tags = []types.Tag{}
	}
	writeOK(w, map[string]any{"tags": tags})
}

func (s *Server) addTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_tag")
		return
	}
	s.mu.Lock()
	s.tags = append(s.tags, types.Tag{ID: s.nextTagID, Name: body.Name})
	s.nextTagID++
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	s.mu.Lock()
	for i, t := range s.tags {
		if t.ID == id {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.notifications
	if ns == nil {
		ns = []types.Notification{}
	}
	writeOK(w, map[string]any{"notifications": ns})
}

func (s *Server) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[id]
	if msgs == nil {
		msgs = []types.Message{}
	}
	writeOK(w, map[string]any{"messages": msgs})
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == "" {
		writeError(w, http.StatusBadRequest, "empty_message")
		return
	}
	s.mu.Lock()
	msg := types.Message{
		ID:       s.nextMessageID,
		SenderID: s.own.ID,
		Content:  body.Content,
		SentAt:   time.Now(),
	}
	s.nextMessageID++
	s.messages[id] = append(s.messages[id], msg)
	s.mu.Unlock()
	writeOK(w, map[string]any{"message": msg})
}

func (s *Server) connections(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conns := []types.Connection{}
	for id := range s.likes {
		if !s.likedBack[id] {
			continue
		}
		p, found := s.profile(id)
		if !found {
			continue
		}
		conns = append(conns, types.Connection{
			UserID:         p.ID,
			FirstName:      p.FirstName,
			ProfilePicture: p.ProfilePicture,
			IsOnline:       p.IsOnline,
			LastSeen:       p.LastSeen,
		})
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].UserID < conns[j].UserID })
	writeOK(w, map[string]any{"connections": conns})
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.profile(id)
	if !found {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	writeOK(w, map[string]any{"user": p})
}

func (s *Server) profile(id int) (types.CandidateProfile, bool) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return types.CandidateProfile{}, false
}
