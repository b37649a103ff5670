package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/common"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/dmitrijs2005/ubadesk/internal/server/models"
	"github.com/dmitrijs2005/ubadesk/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// UserService is the business logic the handlers delegate to.
type UserService interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type healthResponse struct {
	Status   string  `json:"status"`
	Uptime   float64 `json:"uptime"`
	Database string  `json:"database"`
}

// Handler serves the auth API endpoints.
type Handler struct {
	logger   logging.Logger
	service  UserService
	db       Pinger
	validate *validator.Validate
	started  time.Time
	now      func() time.Time
}

// NewHandler builds a Handler. db may be nil, in which case the health
// endpoint does not check the database.
func NewHandler(logger logging.Logger, service UserService, db Pinger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	validate := validator.New()
	if err := validate.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	return &Handler{
		logger:   logger,
		service:  service,
		db:       db,
		validate: validate,
		started:  time.Now(),
		now:      time.Now,
	}
}

// maxBytes limits the length of a string field in bytes rather than runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func (h *Handler) log(r *http.Request, op string) logging.Logger {
	return h.logger.With("op", op, "request_id", middleware.GetReqID(r.Context()))
}

// decode reads a JSON body into dst and validates it. On failure it writes
// the 400 reply itself and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log logging.Logger, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Debug(r.Context(), "failed to decode request body", "error", err)
		renderError(w, r, http.StatusBadRequest, msgNotJSON)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Debug(r.Context(), "validation failed", "error", err)
			renderError(w, r, http.StatusBadRequest, validationMessage(verrs))
			return false
		}
		log.Error(r.Context(), "validator failure", "error", err)
		renderError(w, r, http.StatusInternalServerError, msgInternal)
		return false
	}

	return true
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "rest.Register"
	log := h.log(r, op)

	var req registerRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			log.Info(r.Context(), "email already registered")
			renderError(w, r, http.StatusBadRequest, msgEmailTaken)
			return
		}
		if errors.Is(err, services.ErrPasswordTooLong) {
			log.Info(r.Context(), "password rejected by hasher")
			renderError(w, r, http.StatusBadRequest, msgPasswordTooLong)
			return
		}
		log.Error(r.Context(), "registration failed", "error", err)
		renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	log.Info(r.Context(), "user registered", "user_id", res.User.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "rest.Login"
	log := h.log(r, op)

	var req loginRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			log.Info(r.Context(), "login rejected")
			renderError(w, r, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		log.Error(r.Context(), "login failed", "error", err)
		renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	log.Info(r.Context(), "login success", "user_id", res.User.ID)
	render.JSON(w, r, res)
}

// Me returns the user attached by the auth middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		renderError(w, r, http.StatusUnauthorized, msgTokenMissing)
		return
	}
	render.JSON(w, r, user)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	const op = "rest.Health"

	resp := healthResponse{
		Status:   "healthy",
		Uptime:   h.now().Sub(h.started).Seconds(),
		Database: "connected",
	}

	if h.db == nil {
		resp.Database = "disabled"
	} else if err := h.db.PingContext(r.Context()); err != nil {
		h.log(r, op).Warn(r.Context(), "database ping failed", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "unavailable"
		render.Status(r, http.StatusServiceUnavailable)
	}

	render.JSON(w, r, resp)
}
