package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coursehub/backend/internal/actorctx"
	"github.com/coursehub/backend/internal/authz"
	"github.com/coursehub/backend/internal/domain/user"
	"github.com/coursehub/backend/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Count(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id, role string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// role is fixed at registration; elevation is a separate admin operation
	u, err := h.users.Create(cctx, req.Email, hash, req.Name, user.RoleUser)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.Issue(u.ID, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// unknown email and wrong password are indistinguishable
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	if !security.CheckPassword(foundUser.PasswordHash, req.Password) {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  foundUser,
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, caller.ID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

// Count reports the total user count. The admin gate also runs in the
// route middleware; checking here keeps the handler safe when mounted
// elsewhere.
func (h *AuthHandler) Count(ctx *gin.Context) {
	caller, _ := actorctx.CallerFrom(ctx.Request.Context())

	if d := authz.RequireAdmin(caller); !d.Allowed {
		if d.Reason == authz.ReasonUnauthenticated {
			RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
			return
		}

		RespondForbidden(ctx, "Admin role required")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	count, err := h.users.Count(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not count users")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

// UpdateRole is the privileged elevation path that replaces out-of-band
// store edits.
func (h *AuthHandler) UpdateRole(ctx *gin.Context) {
	caller, _ := actorctx.CallerFrom(ctx.Request.Context())

	if d := authz.RequireAdmin(caller); !d.Allowed {
		if d.Reason == authz.ReasonUnauthenticated {
			RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
			return
		}

		RespondForbidden(ctx, "Admin role required")
		return
	}

	var req user.UpdateRoleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.UpdateRole(cctx, ctx.Param("id"), req.Role)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not update role")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}
