package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/teashop/backend/internal/application/identity"
	"github.com/teashop/backend/internal/domain/identity"
)

// UserHandler manages staff accounts
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(base BaseHandler, userService *identityapp.UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService}
}

type listUsersQuery struct {
	Keyword    string `form:"keyword"`
	Role       string `form:"role"`
	ActiveOnly bool   `form:"active_only"`
}

// List returns the roster
func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	input := identityapp.ListUsersInput{Keyword: q.Keyword, ActiveOnly: q.ActiveOnly}
	if q.Role != "" {
		role := identity.Role(q.Role)
		input.Role = &role
	}
	users, err := h.userService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponses(users))
}

// Get returns one user
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(*user))
}

// Create adds a user
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input identityapp.CreateUserInput
	if !h.bindJSON(c, &input) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toUserResponse(*user))
}

// Update changes a user
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input identityapp.UpdateUserInput
	if !h.bindJSON(c, &input) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(*user))
}

// Delete removes a user
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}
