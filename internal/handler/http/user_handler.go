package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/user-microservices/internal/greeting"
	"github.com/vasiliy-maslov/user-microservices/internal/user"
)

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,max=255"`
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/v1/user", func(r chi.Router) {
		r.Post("/", h.handleSaveUser)
		r.Get("/", h.handleListUsers)
		r.Get("/test", h.handleTest)
		r.Get("/{id}", h.handleGetUserByID)
	})
}

func (h *UserHandler) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var requestPayload CreateUserRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		logger.Warn().Err(err).Msg("Request body has data after the JSON object")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			logger.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	saved, err := h.service.SaveUser(r.Context(), user.UserDto{
		Name:  requestPayload.Name,
		Email: requestPayload.Email,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save user via service")

		clientMessage := "Failed to save user"
		if errors.Is(err, user.ErrConstraintViolation) {
			clientMessage = "User violates a storage constraint"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, saved)
}

func (h *UserHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Test(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to fetch greeting via service")

		clientMessage := "Test service is unavailable"
		if errors.Is(err, greeting.ErrDownstreamTimeout) {
			clientMessage = "Test service timed out"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithText(w, http.StatusOK, body)
}

func (h *UserHandler) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || userID <= 0 {
		log.Ctx(r.Context()).Warn().Str("user_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	foundUser, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		clientMessage := "Failed to get user by id"
		if errors.Is(err, user.ErrNotFound) {
			clientMessage = "User not found"
		} else {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to get user by id via service")
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, foundUser.ToDto())
}

func (h *UserHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list users via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list users")
		return
	}

	response := make([]user.UserDto, 0, len(users))
	for _, u := range users {
		response = append(response, u.ToDto())
	}

	respondWithJSON(w, http.StatusOK, response)
}
