package controllers

import (
	"encoding/json"
	"net/http"

	"staffdesk/app/dto"
	jwtutil "staffdesk/app/jwt"
	"staffdesk/app/services"
)

type AuthController struct {
	Users  *services.UserService
	Signer *jwtutil.Signer
}

func NewAuthController(users *services.UserService, signer *jwtutil.Signer) *AuthController {
	return &AuthController{Users: users, Signer: signer}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Username == "" || req.Password == "" {
		writeResult(w, http.StatusBadRequest, dto.Fail("Missing credentials"))
		return
	}
	u, err := c.Users.ValidateCredentials(req.Username, req.Password)
	if err != nil {
		writeResult(w, http.StatusUnauthorized, dto.Fail("Invalid credentials"))
		return
	}
	token, err := c.Signer.Sign(u.ID, u.Username, u.Role)
	if err != nil {
		writeResult(w, http.StatusInternalServerError, dto.Fail("Token error"))
		return
	}
	writeResult(w, http.StatusOK, dto.OK(dto.TokenResponse{AccessToken: token}))
}
