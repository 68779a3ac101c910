package controllers

import (
	"net/http"

	"staffdesk/app/dto"
)

type HTTPController struct{}

func NewHTTPController() *HTTPController { return &HTTPController{} }

func (c *HTTPController) Ping(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, dto.OK(map[string]string{"status": "ok"}))
}
