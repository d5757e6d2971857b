package role

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Handler handles HTTP requests for role management
type Handler struct {
	roleService *RoleService
}

// NewHandler creates a new role handler
func NewHandler(roleService *RoleService) *Handler {
	return &Handler{
		roleService: roleService,
	}
}

// RegisterRoutes registers the role routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.ListRoles)
		r.Post("/", h.CreateRole)
		r.Get("/{id}", h.GetRole)
		r.Put("/{id}", h.UpdateRole)
		r.Delete("/{id}", h.DeleteRole)
	})
}

type RoleResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type RoleRequest struct {
	Name string `json:"name"`
}

func toRoleResponse(role Role) RoleResponse {
	return RoleResponse{
		ID:    role.ID,
		Name:  role.Name,
		Label: role.Label(),
	}
}

// ListRoles handles the request to list all roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.FindRoles(r.Context())
	if err != nil {
		slog.Error("Failed getting roles", "err", err)
		http.Error(w, "Failed getting roles", http.StatusInternalServerError)
		return
	}

	response := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		response = append(response, toRoleResponse(role))
	}
	render.JSON(w, r, response)
}

// GetRole handles the request to get a single role by id
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid role id", http.StatusBadRequest)
		return
	}

	role, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			http.Error(w, "Role not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed getting role", "id", id, "err", err)
		http.Error(w, "Failed getting role", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, toRoleResponse(role))
}

// CreateRole handles the request to create a new role
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var request RoleRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.roleService.CreateRole(r.Context(), request.Name)
	if err != nil {
		var exists ErrRoleNameAlreadyExists
		switch {
		case errors.Is(err, ErrEmptyRoleName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &exists):
			http.Error(w, exists.Error(), http.StatusConflict)
		default:
			slog.Error("Failed creating role", "name", request.Name, "err", err)
			http.Error(w, "Failed creating role", http.StatusInternalServerError)
		}
		return
	}

	role, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		slog.Error("Failed getting created role", "id", id, "err", err)
		http.Error(w, "Failed getting created role", http.StatusInternalServerError)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toRoleResponse(role))
}

// UpdateRole handles the request to rename a role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid role id", http.StatusBadRequest)
		return
	}

	var request RoleRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.roleService.UpdateRole(r.Context(), id, request.Name); err != nil {
		var exists ErrRoleNameAlreadyExists
		switch {
		case errors.Is(err, ErrRoleNotFound):
			http.Error(w, "Role not found", http.StatusNotFound)
		case errors.Is(err, ErrEmptyRoleName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &exists):
			http.Error(w, exists.Error(), http.StatusConflict)
		default:
			slog.Error("Failed updating role", "id", id, "err", err)
			http.Error(w, "Failed updating role", http.StatusInternalServerError)
		}
		return
	}

	role, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		slog.Error("Failed getting updated role", "id", id, "err", err)
		http.Error(w, "Failed getting updated role", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, toRoleResponse(role))
}

// DeleteRole handles the request to delete a role
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid role id", http.StatusBadRequest)
		return
	}

	if err := h.roleService.DeleteRole(r.Context(), id); err != nil {
		slog.Error("Failed deleting role", "id", id, "err", err)
		http.Error(w, "Failed deleting role", http.StatusInternalServerError)
		return
	}
	render.NoContent(w, r)
}
