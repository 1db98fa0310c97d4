// Package stubserver is an in-memory fake of the price-comparison
// backend. It implements the complete HTTP contract the client speaks —
// users, shopping carts, cart items, categories and items — over a
// seeded catalog, so the client can be developed and exercised without
// the real backend. State lives in process memory and is gone on exit.
package stubserver

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	funk "github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/grocart/internal/logger"
	"github.com/patric-chuzhbe/grocart/internal/models"
)

const sessionTTL = 24 * time.Hour

// Claims is the JWT payload of a stub session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type stubUser struct {
	user     models.User
	password string
}

// Server holds the in-memory backend state.
type Server struct {
	mu           sync.Mutex
	signingKey   []byte
	validate     *validator.Validate
	usersByEmail map[string]*stubUser
	usersByID    map[string]*stubUser
	sessions     map[string]string
	carts        map[string]*models.SavedCart
	catalog      []seedItem
}

// New creates a stub server with a seeded catalog. signingKey signs the
// session tokens handed out by register and login.
func New(signingKey []byte) *Server {
	return &Server{
		signingKey:   signingKey,
		validate:     validator.New(),
		usersByEmail: map[string]*stubUser{},
		usersByID:    map[string]*stubUser{},
		sessions:     map[string]string{},
		carts:        map[string]*models.SavedCart{},
		catalog:      seedCatalog(),
	}
}

// Handler returns the chi router implementing the backend contract.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)

	router.Route("/api/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
	})

	router.Route("/api/shopping-carts", func(r chi.Router) {
		r.Post("/new", s.handleCreateCart)
		r.Put("/{cartID}/archive", s.handleArchiveCart)
		r.Put("/{cartID}/activate", s.handleActivateCart)
		r.Delete("/{cartID}", s.handleDeleteCart)
		r.Get("/history/{userID}", s.handleHistory)
	})

	router.Route("/api/cart-items", func(r chi.Router) {
		r.Post("/{cartID}/items/{itemID}", s.handleAddItem)
		r.Delete("/{cartID}/items/{itemID}", s.handleRemoveItem)
	})

	router.Route("/api/categories", func(r chi.Router) {
		r.Get("/general", s.handleGeneralCategories)
		r.Get("/sub", s.handleSubCategories)
		r.Get("/specific", s.handleSpecificCategories)
	})

	router.Route("/api/items", func(r chi.Router) {
		r.Get("/search/by-name", s.handleSearchByName)
		r.Get("/search/by-id/{itemID}", s.handleItemByID)
		r.Get("/", s.handleItemsByCategory)
	})

	return router
}

func writeJSON(response http.ResponseWriter, status int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding response:", err)
	}
}

func writeError(response http.ResponseWriter, status int, message string) {
	writeJSON(response, status, models.ErrorResponse{Message: message})
}

func (s *Server) buildSessionToken(userID string) (string, error) {
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			},
			UserID: userID,
		},
	)

	return token.SignedString(s.signingKey)
}

func (s *Server) handleRegister(response http.ResponseWriter, request *http.Request) {
	var registration models.RegisterRequest
	if err := json.NewDecoder(request.Body).Decode(&registration); err != nil {
		writeError(response, http.StatusBadRequest, "invalid registration payload")
		return
	}
	if err := s.validate.Struct(registration); err != nil {
		writeError(response, http.StatusBadRequest, "invalid registration payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[registration.Email]; exists {
		writeError(response, http.StatusConflict, "a user with this email already exists")
		return
	}

	userID := uuid.New().String()
	session, err := s.buildSessionToken(userID)
	if err != nil {
		writeError(response, http.StatusInternalServerError, "failed to issue a session")
		return
	}

	registered := &stubUser{
		user: models.User{
			ID:      userID,
			Name:    registration.Name,
			Email:   registration.Email,
			Session: session,
		},
		password: registration.Password,
	}
	s.usersByEmail[registration.Email] = registered
	s.usersByID[userID] = registered
	s.sessions[session] = userID

	writeJSON(response, http.StatusCreated, registered.user)
}

func (s *Server) handleLogin(response http.ResponseWriter, request *http.Request) {
	email := request.URL.Query().Get("email")
	password := request.URL.Query().Get("password")

	s.mu.Lock()
	defer s.mu.Unlock()

	known, exists := s.usersByEmail[email]
	if !exists || known.password != password {
		writeError(response, http.StatusUnauthorized, "wrong email or password")
		return
	}

	session, err := s.buildSessionToken(known.user.ID)
	if err != nil {
		writeError(response, http.StatusInternalServerError, "failed to issue a session")
		return
	}
	s.sessions[session] = known.user.ID

	loggedIn := known.user
	loggedIn.Session = session

	writeJSON(response, http.StatusOK, loggedIn)
}

func (s *Server) handleLogout(response http.ResponseWriter, request *http.Request) {
	session := request.URL.Query().Get("session")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session]; !exists {
		writeError(response, http.StatusUnauthorized, "unknown session")
		return
	}
	delete(s.sessions, session)

	response.WriteHeader(http.StatusOK)
}

func (s *Server) handleCreateCart(response http.ResponseWriter, request *http.Request) {
	var owner models.User
	if err := json.NewDecoder(request.Body).Decode(&owner); err != nil || owner.ID == "" {
		writeError(response, http.StatusBadRequest, "invalid cart owner payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := &models.SavedCart{
		ID:        uuid.New().String(),
		UserID:    owner.ID,
		Items:     []models.Line{},
		CreatedAt: time.Now().UTC(),
	}
	s.carts[created.ID] = created

	writeJSON(response, http.StatusCreated, created)
}

func (s *Server) handleArchiveCart(response http.ResponseWriter, request *http.Request) {
	cartID := chi.URLParam(request, "cartID")

	var archive models.ArchiveRequest
	if err := json.NewDecoder(request.Body).Decode(&archive); err != nil {
		writeError(response, http.StatusBadRequest, "invalid archive payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.carts[cartID]
	if !exists {
		writeError(response, http.StatusNotFound, "cart not found")
		return
	}

	stored.Archived = true
	if archive.Name != "" {
		stored.Name = archive.Name
	}

	writeJSON(response, http.StatusOK, stored)
}

func (s *Server) handleActivateCart(response http.ResponseWriter, request *http.Request) {
	cartID := chi.URLParam(request, "cartID")

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.carts[cartID]
	if !exists {
		writeError(response, http.StatusNotFound, "cart not found")
		return
	}

	stored.Archived = false

	writeJSON(response, http.StatusOK, stored)
}

func (s *Server) handleDeleteCart(response http.ResponseWriter, request *http.Request) {
	cartID := chi.URLParam(request, "cartID")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[cartID]; !exists {
		writeError(response, http.StatusNotFound, "cart not found")
		return
	}
	delete(s.carts, cartID)

	response.WriteHeader(http.StatusOK)
}

func (s *Server) handleHistory(response http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	history := []models.SavedCart{}
	for _, stored := range s.carts {
		if stored.UserID == userID {
			history = append(history, *stored)
		}
	}
	// Map iteration order is random; fix it so paging clients see a
	// stable listing. Consumers still sort by their own keys.
	sort.Slice(history, func(i, j int) bool {
		return history[i].ID < history[j].ID
	})

	writeJSON(response, http.StatusOK, history)
}

func quantityParam(request *http.Request) int {
	quantity, err := strconv.Atoi(request.URL.Query().Get("quantity"))
	if err != nil || quantity < 1 {
		return 1
	}

	return quantity
}

func (s *Server) findSeededItem(itemID string) (models.Item, bool) {
	for _, seeded := range s.catalog {
		if seeded.item.ID == itemID {
			return seeded.item, true
		}
	}

	return models.Item{}, false
}

func (s *Server) handleAddItem(response http.ResponseWriter, request *http.Request) {
	cartID := chi.URLParam(request, "cartID")
	itemID := chi.URLParam(request, "itemID")
	quantity := quantityParam(request)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.carts[cartID]
	if !exists {
		writeError(response, http.StatusNotFound, "cart not found")
		return
	}

	item, found := s.findSeededItem(itemID)
	if !found {
		writeError(response, http.StatusNotFound, "item not found")
		return
	}

	merged := false
	for i := range stored.Items {
		if stored.Items[i].Item.ID == itemID {
			stored.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		stored.Items = append(stored.Items, models.Line{Item: item, Quantity: quantity})
	}

	writeJSON(response, http.StatusOK, stored)
}

func (s *Server) handleRemoveItem(response http.ResponseWriter, request *http.Request) {
	cartID := chi.URLParam(request, "cartID")
	itemID := chi.URLParam(request, "itemID")
	quantity := quantityParam(request)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.carts[cartID]
	if !exists {
		writeError(response, http.StatusNotFound, "cart not found")
		return
	}

	for i := range stored.Items {
		if stored.Items[i].Item.ID == itemID {
			stored.Items[i].Quantity -= quantity
			break
		}
	}
	stored.Items = funk.Filter(stored.Items, func(line models.Line) bool {
		return line.Quantity > 0
	}).([]models.Line)

	response.WriteHeader(http.StatusOK)
}

func (s *Server) handleGeneralCategories(response http.ResponseWriter, _ *http.Request) {
	generals := []string{}
	for _, seeded := range s.catalog {
		generals = append(generals, seeded.row.GeneralCategory)
	}

	writeJSON(response, http.StatusOK, funk.UniqString(generals))
}

func (s *Server) handleSubCategories(response http.ResponseWriter, request *http.Request) {
	general := request.URL.Query().Get("general")

	subs := []string{}
	for _, seeded := range s.catalog {
		if seeded.row.GeneralCategory == general {
			subs = append(subs, seeded.row.SubCategory)
		}
	}

	writeJSON(response, http.StatusOK, funk.UniqString(subs))
}

func (s *Server) handleSpecificCategories(response http.ResponseWriter, request *http.Request) {
	general := request.URL.Query().Get("general")
	sub := request.URL.Query().Get("sub")

	specifics := []string{}
	for _, seeded := range s.catalog {
		if seeded.row.GeneralCategory == general && seeded.row.SubCategory == sub {
			specifics = append(specifics, seeded.row.SpecificCategory)
		}
	}

	writeJSON(response, http.StatusOK, funk.UniqString(specifics))
}

func (s *Server) handleSearchByName(response http.ResponseWriter, request *http.Request) {
	name := strings.ToLower(request.URL.Query().Get("name"))

	matches := []models.Item{}
	for _, seeded := range s.catalog {
		if strings.Contains(strings.ToLower(seeded.item.Name), name) {
			matches = append(matches, seeded.item)
		}
	}

	writeJSON(response, http.StatusOK, matches)
}

func (s *Server) handleItemByID(response http.ResponseWriter, request *http.Request) {
	itemID := chi.URLParam(request, "itemID")

	item, found := s.findSeededItem(itemID)
	if !found {
		writeError(response, http.StatusNotFound, "item not found")
		return
	}

	writeJSON(response, http.StatusOK, item)
}

func (s *Server) handleItemsByCategory(response http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	general := query.Get("generalCategory")
	sub := query.Get("subCategory")

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(query.Get("size"))
	if err != nil || size < 1 {
		size = 10
	}

	matches := []models.Item{}
	for _, seeded := range s.catalog {
		if seeded.row.GeneralCategory == general && (sub == "" || seeded.row.SubCategory == sub) {
			matches = append(matches, seeded.item)
		}
	}

	from := page * size
	if from > len(matches) {
		from = len(matches)
	}
	to := from + size
	if to > len(matches) {
		to = len(matches)
	}

	writeJSON(response, http.StatusOK, matches[from:to])
}
