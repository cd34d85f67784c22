package api

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/service"
	"alcyxob/training-app/internal/session"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AuthHandler serves registration, login and the session endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
	instr       *instrumentation.Instrumentation
}

// NewAuthHandler creates a new AuthHandler. instr may be nil.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, instr *instrumentation.Instrumentation) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		instr:       instr,
	}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	FirstName string `json:"firstName"`
	UserID    string `json:"userId"`
	IsAdmin   bool   `json:"isAdmin"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type SessionResponse struct {
	ValidSession bool   `json:"validSession"`
	UserID       string `json:"userId,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Registration details"
// @Success 201 {object} CreatedResponse "Account created"
// @Failure 400 {object} ErrorResponse "Missing or invalid fields"
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Router /accounts/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	account, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	created(c, "/api/v1/accounts/", account.ID.Hex())
}

// Login godoc
// @Summary Log in and start a session
// @Description Sets an HTTP-only session cookie. Unknown usernames and wrong passwords get the same 401.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /accounts/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	account, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			h.countLogin("rejected")
		}
		fail(c, err)
		return
	}

	err = h.sessions.Login(c.Request.Context(), c.Writer, c.Request, sessionData(account))
	if err != nil {
		fail(c, fmt.Errorf("start session: %w", err))
		return
	}
	h.countLogin("ok")

	c.JSON(http.StatusOK, LoginResponse{
		FirstName: account.FirstName,
		UserID:    account.ID.Hex(),
		IsAdmin:   account.IsAdmin,
	})
}

func sessionData(account *domain.Account) session.Data {
	return session.Data{
		UserID:   account.ID.Hex(),
		Username: account.Username,
		IsAdmin:  account.IsAdmin,
	}
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.instr != nil {
		h.instr.CounterLogins.WithLabelValues(outcome).Inc()
	}
}

// CheckSession reports whether the request carries a live session.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	data, err := h.sessions.Load(c.Request)
	if err == nil {
		_, err = h.authService.SessionAccount(c.Request.Context(), data.UserID)
		if errors.Is(err, service.ErrUnauthenticated) {
			err = session.ErrNotFound
			if logoutErr := h.sessions.Logout(c.Request.Context(), c.Writer, c.Request); logoutErr != nil {
				log.Warnf("drop session of missing account %s: %s", data.UserID, logoutErr)
			}
		}
	}
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Errorf("check session: %s", err)
		}
		c.JSON(http.StatusUnauthorized, SessionResponse{ValidSession: false})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ValidSession: true, UserID: data.UserID})
}

// Logout always succeeds from the client's point of view.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		log.Errorf("logout: %s", err)
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// created answers 201 with the new id and its URL in the Location header.
func created(c *gin.Context, basePath, id string) {
	c.Header("Location", basePath+id)
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}
