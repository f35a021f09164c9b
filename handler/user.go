package handler

import (
	"encoding/json"
	"net/http"

	"shorter/store"

	"github.com/rs/zerolog/log"
)

// UserHandler handles account registration.
type UserHandler struct {
	users *store.UserStore
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/users. The identity provider calls this on
// every sign-in, so an existing account is an ordinary success: the
// display name is refreshed and the stored record returned. 201 only when
// the record was actually created.
func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	user, created, err := uh.users.Ensure(ctx, input.Email, input.Name)
	if err != nil {
		log.Warn().Err(err).Str("email", input.Email).Msg("Failed to register user")
		SendJSONError(w, statusFromError(err), err, "")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	SendJSONSuccess(w, status, user)
}
