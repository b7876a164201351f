package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/wandrix/internal/models"
)

const (
	defaultTokenTTL = 24 * time.Hour
	historyLimit    = 10
	minPasswordLen  = 6
	isoLayout       = "2006-01-02T15:04:05.999999"
)

type stubUser struct {
	id       string
	name     string
	email    string
	password []byte
	wishlist []wishlistItem
}

type wishlistItem struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Tagline string `json:"tagline,omitempty"`
	Image   string `json:"image,omitempty"`
	AddedAt string `json:"added_at"`
}

type userView struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Wishlist *[]wishlistItem `json:"wishlist,omitempty"`
}

type comparisonRecord struct {
	ID           string             `json:"_id"`
	Destination1 string             `json:"destination1"`
	Destination2 string             `json:"destination2"`
	Preferences  models.Preferences `json:"preferences"`
	Result       models.Comparison  `json:"result"`
	CreatedAt    string             `json:"created_at"`
}

type itineraryRecord struct {
	ID          string             `json:"_id"`
	Destination string             `json:"destination"`
	Preferences models.Preferences `json:"preferences"`
	Itinerary   models.Itinerary   `json:"itinerary"`
	CreatedAt   string             `json:"created_at"`
}

// StubHandler serves the travel API from memory.
type StubHandler struct {
	mux    *http.ServeMux
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
	cost   int

	mu          sync.Mutex
	users       map[string]*stubUser
	emails      map[string]string
	comparisons []comparisonRecord
	itineraries map[string]itineraryRecord
}

// StubOption configures a [StubHandler].
type StubOption func(*StubHandler)

// WithSecret sets the HS256 signing key.
func WithSecret(secret string) StubOption {
	return func(h *StubHandler) {
		if secret != "" {
			h.secret = []byte(secret)
		}
	}
}

// WithTokenTTL sets how long issued tokens stay valid.
func WithTokenTTL(ttl time.Duration) StubOption {
	return func(h *StubHandler) {
		if ttl > 0 {
			h.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for token and record timestamps.
func WithClock(now func() time.Time) StubOption {
	return func(h *StubHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithStubLogger sets the handler's logger.
func WithStubLogger(l *log.Logger) StubOption {
	return func(h *StubHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithHashCost sets the bcrypt cost; tests use [bcrypt.MinCost].
func WithHashCost(cost int) StubOption {
	return func(h *StubHandler) { h.cost = cost }
}

// NewStubHandler creates an empty stub API.
func NewStubHandler(opts ...StubOption) *StubHandler {
	h := &StubHandler{
		mux:         http.NewServeMux(),
		secret:      []byte(uuid.NewString()),
		ttl:         defaultTokenTTL,
		now:         time.Now,
		logger:      log.New(io.Discard),
		cost:        bcrypt.DefaultCost,
		users:       map[string]*stubUser{},
		emails:      map[string]string{},
		itineraries: map[string]itineraryRecord{},
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("GET /api/health", h.health)
	h.mux.HandleFunc("GET /api/db/status", h.dbStatus)
	h.mux.HandleFunc("POST /api/destination/info", h.destinationInfo)
	h.mux.HandleFunc("POST /api/destination/highlights", h.destinationHighlights)
	h.mux.HandleFunc("POST /api/compare", h.compare)
	h.mux.HandleFunc("POST /api/itinerary/generate", h.generateItinerary)
	h.mux.HandleFunc("GET /api/itinerary/{id}", h.itinerary)
	h.mux.HandleFunc("GET /api/comparisons/history", h.history)
	h.mux.HandleFunc("GET /api/destinations/popular", h.popular)

	h.mux.HandleFunc("POST /api/auth/register", h.register)
	h.mux.HandleFunc("POST /api/auth/login", h.login)
	h.mux.HandleFunc("GET /api/auth/me", h.me)
	h.mux.HandleFunc("GET /api/auth/wishlist", h.wishlist)
	h.mux.HandleFunc("POST /api/auth/wishlist/add", h.addToWishlist)
	h.mux.HandleFunc("POST /api/auth/wishlist/remove", h.removeFromWishlist)
	h.mux.HandleFunc("GET /api/auth/wishlist/check/{name}", h.checkWishlist)
	return h
}

// NewStubRouter mounts a [StubHandler] behind panic recovery, request logging and CORS.
func NewStubRouter(logger *log.Logger, opts ...StubOption) *BasicRouter {
	r := NewBasicRouter()
	r.Use(Recoverer(logger), RequestLogger(logger), CORS())
	r.Handler(NewStubHandler(append([]StubOption{WithStubLogger(logger)}, opts...)...))
	return r
}

// Routes implements [Handler]; the stub owns the whole path space.
func (h *StubHandler) Routes() []string {
	return []string{"/"}
}

func (h *StubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// IssueToken signs a token for userID that expires after the configured TTL.
func (h *StubHandler) IssueToken(userID string) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(h.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

func (h *StubHandler) verifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(h.now))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims")
	}
	id, _ := claims["user_id"].(string)
	if id == "" {
		return "", errors.New("token has no user_id")
	}
	return id, nil
}

// currentUser resolves the bearer token. Callers must hold h.mu.
func (h *StubHandler) currentUser(r *http.Request) *stubUser {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	id, err := h.verifyToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		h.logger.Debug("rejected token", "error", err)
		return nil
	}
	return h.users[id]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a JSON object body into v. An empty or malformed body yields false.
func decodeBody(r *http.Request, v any) bool {
	if r.Body == nil {
		return false
	}
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (h *StubHandler) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Wandrix API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":                 "/api/health",
			"destination_info":       "/api/destination/info",
			"destination_highlights": "/api/destination/highlights",
			"compare":                "/api/compare",
			"generate_itinerary":     "/api/itinerary/generate",
			"popular_destinations":   "/api/destinations/popular",
		},
	})
}

func (h *StubHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "Wandrix API is running",
		"database": map[string]any{
			"status":    "healthy",
			"mode":      "memory",
			"timestamp": h.now().UTC().Format(isoLayout),
		},
	})
}

func (h *StubHandler) dbStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"connected":   true,
		"database":    "wandrix",
		"mode":        "memory",
		"client_info": "stub",
		"last_check":  h.now().UTC().Format(isoLayout),
	})
}

func (h *StubHandler) register(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	for _, field := range []string{"email", "password", "name"} {
		if body[field] == "" {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(body["email"]))
	name := strings.TrimSpace(body["name"])
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(body["password"]) < minPasswordLen {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body["password"]), h.cost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	h.mu.Lock()
	if _, exists := h.emails[email]; exists {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	u := &stubUser{id: uuid.NewString(), name: name, email: email, password: hash, wishlist: []wishlistItem{}}
	h.users[u.id] = u
	h.emails[email] = u.id
	h.mu.Unlock()

	token, err := h.IssueToken(u.id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	h.logger.Info("user registered", "email", email)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"token":   token,
		"user":    userView{ID: u.id, Email: u.email, Name: u.name},
	})
}

func (h *StubHandler) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	email, okEmail := body["email"]
	password, okPassword := body["password"]
	if !okEmail || !okPassword {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	email = strings.ToLower(strings.TrimSpace(email))

	h.mu.Lock()
	u := h.users[h.emails[email]]
	h.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword(u.password, []byte(password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.IssueToken(u.id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userView{ID: u.id, Email: u.email, Name: u.name},
	})
}

func (h *StubHandler) me(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	u := h.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list := append([]wishlistItem{}, u.wishlist...)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userView{ID: u.id, Email: u.email, Name: u.name, Wishlist: &list},
	})
}

func (h *StubHandler) wishlist(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	u := h.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wishlist": append([]wishlistItem{}, u.wishlist...)})
}

func (h *StubHandler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	u := h.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Destination json.RawMessage `json:"destination"`
	}
	if !decodeBody(r, &body) || len(body.Destination) == 0 {
		writeError(w, http.StatusBadRequest, "Destination is required")
		return
	}
	var dest struct {
		Name    *string `json:"name"`
		Country string  `json:"country"`
		Tagline string  `json:"tagline"`
		Image   string  `json:"image"`
	}
	if err := json.Unmarshal(body.Destination, &dest); err != nil || dest.Name == nil {
		writeError(w, http.StatusBadRequest, "Invalid destination format")
		return
	}

	for _, item := range u.wishlist {
		if item.Name == *dest.Name {
			writeError(w, http.StatusConflict, "Destination already in wishlist")
			return
		}
	}

	item := wishlistItem{
		Name:    *dest.Name,
		Country: dest.Country,
		Tagline: dest.Tagline,
		Image:   dest.Image,
		AddedAt: h.now().UTC().Format(isoLayout),
	}
	u.wishlist = append(u.wishlist, item)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Added to wishlist", "destination": item})
}

func (h *StubHandler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	u := h.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Name *string `json:"name"`
	}
	if !decodeBody(r, &body) || body.Name == nil {
		writeError(w, http.StatusBadRequest, "Destination name is required")
		return
	}

	kept := u.wishlist[:0]
	for _, item := range u.wishlist {
		if item.Name != *body.Name {
			kept = append(kept, item)
		}
	}
	u.wishlist = kept
	writeJSON(w, http.StatusOK, map[string]any{"message": "Removed from wishlist", "destination": *body.Name})
}

func (h *StubHandler) checkWishlist(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := r.PathValue("name")
	in := false
	if u := h.currentUser(r); u != nil {
		for _, item := range u.wishlist {
			if item.Name == name {
				in = true
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"in_wishlist": in})
}

func (h *StubHandler) destinationInfo(w http.ResponseWriter, r *http.Request) {
	name, ok := destinationField(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Destination name is required")
		return
	}
	writeJSON(w, http.StatusOK, stubDestinationInfo(name))
}

func (h *StubHandler) destinationHighlights(w http.ResponseWriter, r *http.Request) {
	name, ok := destinationField(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Destination name is required")
		return
	}
	writeJSON(w, http.StatusOK, stubHighlights(name))
}

func destinationField(r *http.Request) (string, bool) {
	var body struct {
		Destination *string `json:"destination"`
	}
	if !decodeBody(r, &body) || body.Destination == nil {
		return "", false
	}
	return *body.Destination, true
}

func (h *StubHandler) compare(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "Missing required field: destination1")
		return
	}
	for _, field := range []string{"destination1", "destination2", "preferences"} {
		if _, ok := body[field]; !ok {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}

	var d1, d2 string
	var prefs models.Preferences
	if json.Unmarshal(body["destination1"], &d1) != nil || json.Unmarshal(body["destination2"], &d2) != nil {
		writeError(w, http.StatusBadRequest, "Destinations must be strings")
		return
	}
	if json.Unmarshal(body["preferences"], &prefs) != nil {
		prefs = models.DefaultPreferences()
	}

	result := stubComparison(d1, d2, prefs)

	h.mu.Lock()
	h.comparisons = append(h.comparisons, comparisonRecord{
		ID:           uuid.NewString(),
		Destination1: d1,
		Destination2: d2,
		Preferences:  prefs,
		Result:       result,
		CreatedAt:    h.now().UTC().Format(http.TimeFormat),
	})
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (h *StubHandler) generateItinerary(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Destination *string             `json:"destination"`
		Preferences *models.Preferences `json:"preferences"`
	}
	if !decodeBody(r, &body) || body.Destination == nil {
		writeError(w, http.StatusBadRequest, "Destination is required")
		return
	}

	prefs := models.Preferences{TravelDuration: 7, Budget: "medium", Interests: []string{"general tourism"}, TravelType: "solo"}
	if body.Preferences != nil {
		prefs = *body.Preferences
	}

	it := stubItinerary(*body.Destination, prefs)
	it.ItineraryID = uuid.NewString()

	h.mu.Lock()
	h.itineraries[it.ItineraryID] = itineraryRecord{
		ID:          it.ItineraryID,
		Destination: *body.Destination,
		Preferences: prefs,
		Itinerary:   it,
		CreatedAt:   h.now().UTC().Format(http.TimeFormat),
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, it)
}

func (h *StubHandler) itinerary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	rec, ok := h.itineraries[r.PathValue("id")]
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *StubHandler) history(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	out := make([]comparisonRecord, 0, historyLimit)
	for i := len(h.comparisons) - 1; i >= 0 && len(out) < historyLimit; i-- {
		out = append(out, h.comparisons[i])
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"history": out})
}

func (h *StubHandler) popular(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"destinations": popularDestinations()})
}
