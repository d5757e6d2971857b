package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/simple-admin/simple-admin/pkg/role"
)

// Handler handles HTTP requests for user management
type Handler struct {
	userService *UserService
}

// NewHandler creates a new user handler
func NewHandler(userService *UserService) *Handler {
	return &Handler{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

type UserRequest struct {
	FirstName string  `json:"firstname"`
	LastName  string  `json:"lastname"`
	Age       int32   `json:"age"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	RoleIDs   []int64 `json:"role_ids"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Age       int32  `json:"age"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Roles     []struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label"`
	} `json:"roles"`
}

func toUserResponse(u User) UserResponse {
	var response UserResponse
	copier.Copy(&response, &u)
	for i, ro := range u.Roles {
		response.Roles[i].Label = ro.Label()
	}
	return response
}

// ListUsers handles the request to list all users with their roles
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindUsers(r.Context())
	if err != nil {
		slog.Error("Failed getting users", "err", err)
		http.Error(w, "Failed getting users", http.StatusInternalServerError)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}
	render.JSON(w, r, response)
}

// GetUser handles the request to get a single user by id
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	u, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed getting user", "id", id, "err", err)
		http.Error(w, "Failed getting user", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, toUserResponse(u))
}

// CreateUser handles the request to create a new user
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var request UserRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := CreateUserParams{}
	copier.Copy(&params, &request)

	u, err := h.userService.CreateUser(r.Context(), params)
	if err != nil {
		h.renderSaveError(w, request.Username, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toUserResponse(u))
}

// UpdateUser handles the request to replace a user's attributes and role set
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var request UserRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := UpdateUserParams{}
	copier.Copy(&params, &request)

	u, err := h.userService.UpdateUser(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.renderSaveError(w, request.Username, err)
		return
	}
	render.JSON(w, r, toUserResponse(u))
}

// DeleteUser handles the request to delete a user by id
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		slog.Error("Failed deleting user", "id", id, "err", err)
		http.Error(w, "Failed deleting user", http.StatusInternalServerError)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) renderSaveError(w http.ResponseWriter, username string, err error) {
	var exists ErrUsernameAlreadyExists
	switch {
	case errors.Is(err, ErrUsernameRequired), errors.Is(err, ErrPasswordRequired),
		errors.Is(err, role.ErrRoleNotFound), errors.Is(err, role.ErrNoRoles):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &exists):
		http.Error(w, exists.Error(), http.StatusConflict)
	default:
		slog.Error("Failed saving user", "username", username, "err", err)
		http.Error(w, "Failed saving user", http.StatusInternalServerError)
	}
}
