package handler

import (
	"errors"
	"net/http"

	"journal/internal/auth"

	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Users *auth.Users
	JWT   *auth.JWT
	Log   logrus.FieldLogger
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrRegistrationClosed) {
		writeMessage(w, http.StatusForbidden, "registration closed")
		return
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.writeToken(w, http.StatusCreated, u.ID)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.writeToken(w, http.StatusOK, u.ID)
}

func (h *AuthHandler) writeToken(w http.ResponseWriter, status int, userID uint64) {
	token, err := h.JWT.Sign(userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, status, map[string]any{"token": token})
}
