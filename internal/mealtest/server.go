// Package mealtest is an in-memory stand-in for a meal battle service.
// Tests point the runner at it instead of a real deployment.
package mealtest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/mealmax/mealsmoke/internal/runid"
)

type Meal struct {
	ID         int     `json:"id"`
	Meal       string  `json:"meal"`
	Cuisine    string  `json:"cuisine"`
	Price      float64 `json:"price"`
	Difficulty string  `json:"difficulty"`
	Battles    int     `json:"battles"`
	Wins       int     `json:"wins"`

	deleted bool
}

// Server holds the service state behind one mutex. Set DBDown before
// serving traffic to make /db-check report a broken database.
type Server struct {
	DBDown bool

	mu         sync.Mutex
	meals      []*Meal
	nextID     int
	combatants []int
	requests   []string
	runIDs     map[string]int

	router chi.Router
}

func New() *Server {
	s := &Server{nextID: 1, runIDs: map[string]int{}}
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/db-check", s.handleDBCheck)
		r.Delete("/clear-meals", s.handleClearMeals)
		r.Delete("/clear-catalog", s.handleClearMeals)
		r.Post("/create-meal", s.handleCreateMeal)
		r.Delete("/delete-meal/{id}", s.handleDeleteMeal)
		r.Get("/get-meal-from-database-by-id/{id}", s.handleGetMealByID)
		r.Get("/get-meal-from-database-by-name/{name}", s.handleGetMealByName)
		r.Get("/get-all-meals-from-leaderboard", s.handleLeaderboard)
		r.Delete("/clear-combatants", s.handleClearCombatants)
		r.Post("/prep-combatant", s.handlePrepCombatant)
		r.Post("/prep-combatant/{id}", s.handlePrepCombatantByID)
		r.Get("/get-combatants", s.handleGetCombatants)
		r.Post("/start-battle", s.handleStartBattle)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	if id, err := runid.FromHeader(r.Header); err == nil {
		s.runIDs[id]++
	}
	s.mu.Unlock()
	s.router.ServeHTTP(w, r)
}

// Requests returns every request seen so far as "METHOD /path" lines.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RunIDs returns the distinct run ids seen on incoming requests.
func (s *Server) RunIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.runIDs))
	for id := range s.runIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) handleDBCheck(w http.ResponseWriter, r *http.Request) {
	if s.DBDown {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "database not reachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"database_status": "healthy"})
}

func (s *Server) handleClearMeals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.meals = nil
	s.nextID = 1
	s.combatants = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Meal       string  `json:"meal"`
		Cuisine    string  `json:"cuisine"`
		Price      float64 `json:"price"`
		Difficulty string  `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	if in.Meal == "" || in.Cuisine == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "meal and cuisine are required"})
		return
	}
	if in.Price <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "price must be positive"})
		return
	}
	switch in.Difficulty {
	case "LOW", "MED", "HIGH":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "difficulty must be LOW, MED, or HIGH"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByName(in.Meal) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "meal with name " + in.Meal + " already exists"})
		return
	}
	s.meals = append(s.meals, &Meal{
		ID:         s.nextID,
		Meal:       in.Meal,
		Cuisine:    in.Cuisine,
		Price:      in.Price,
		Difficulty: in.Difficulty,
	})
	s.nextID++
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "meal": in.Meal})
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid meal id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meal := s.findByID(id)
	if meal == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "meal with id " + strconv.Itoa(id) + " not found"})
		return
	}
	meal.deleted = true
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleGetMealByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid meal id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meal := s.findByID(id)
	if meal == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "meal with id " + strconv.Itoa(id) + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "meal": meal})
}

func (s *Server) handleGetMealByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meal := s.findByName(name)
	if meal == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "meal with name " + name + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "meal": meal})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "wins"
	}
	if sortBy != "wins" && sortBy != "win_pct" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid sort parameter: " + sortBy})
		return
	}

	type entry struct {
		Meal
		WinPct float64 `json:"win_pct"`
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	leaderboard := []entry{}
	for _, meal := range s.meals {
		if meal.deleted || meal.Battles == 0 {
			continue
		}
		leaderboard = append(leaderboard, entry{
			Meal:   *meal,
			WinPct: float64(meal.Wins) * 100 / float64(meal.Battles),
		})
	}
	sort.Slice(leaderboard, func(i, j int) bool {
		if sortBy == "win_pct" {
			return leaderboard[i].WinPct > leaderboard[j].WinPct
		}
		return leaderboard[i].Wins > leaderboard[j].Wins
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "leaderboard": leaderboard})
}

func (s *Server) handleClearCombatants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.combatants = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handlePrepCombatant(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Meal string `json:"meal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Meal == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "meal name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meal := s.findByName(in.Meal)
	if meal == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "meal with name " + in.Meal + " not found"})
		return
	}
	s.prepCombatant(w, meal)
}

func (s *Server) handlePrepCombatantByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid meal id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meal := s.findByID(id)
	if meal == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "meal with id " + strconv.Itoa(id) + " not found"})
		return
	}
	s.prepCombatant(w, meal)
}

// prepCombatant assumes s.mu is held.
func (s *Server) prepCombatant(w http.ResponseWriter, meal *Meal) {
	if len(s.combatants) >= 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "combatant list is full"})
		return
	}
	s.combatants = append(s.combatants, meal.ID)

	names := make([]string, 0, len(s.combatants))
	for _, id := range s.combatants {
		if m := s.findByID(id); m != nil {
			names = append(names, m.Meal)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "combatants": names})
}

func (s *Server) handleGetCombatants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	combatants := []*Meal{}
	for _, id := range s.combatants {
		if m := s.findByID(id); m != nil {
			combatants = append(combatants, m)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "combatants": combatants})
}

func (s *Server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.combatants) != 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "two combatants must be prepped"})
		return
	}
	first := s.findByID(s.combatants[0])
	second := s.findByID(s.combatants[1])
	if first == nil || second == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "combatant no longer exists"})
		return
	}

	winner, loser := first, second
	if battleScore(second) > battleScore(first) {
		winner, loser = second, first
	}
	winner.Battles++
	winner.Wins++
	loser.Battles++
	s.combatants = []int{winner.ID}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "winner": winner.Meal})
}

// battleScore mirrors the service's formula: price times cuisine length,
// minus a modifier keyed on difficulty.
func battleScore(m *Meal) float64 {
	modifier := map[string]float64{"HIGH": 1, "MED": 2, "LOW": 3}[m.Difficulty]
	return m.Price*float64(len(m.Cuisine)) - modifier
}

// findByID assumes s.mu is held. Soft-deleted meals are invisible.
func (s *Server) findByID(id int) *Meal {
	for _, m := range s.meals {
		if m.ID == id && !m.deleted {
			return m
		}
	}
	return nil
}

// findByName assumes s.mu is held.
func (s *Server) findByName(name string) *Meal {
	for _, m := range s.meals {
		if strings.EqualFold(m.Meal, name) && !m.deleted {
			return m
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
