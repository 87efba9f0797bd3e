package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type promptEnhanceRequest struct {
	Prompt string `json:"prompt"`
}

type promptEnhanceResponse struct {
	Prompt   string `json:"prompt"`
	Enhanced string `json:"enhanced"`
}

// PromptEnhance rewrites a raw prompt into a richer cinematic description.
// The enhancer itself guarantees a usable result: on any failure the original
// prompt comes back unchanged, so this endpoint never fails on upstream
// trouble.
func (a *App) PromptEnhance(w http.ResponseWriter, r *http.Request) {
	var req promptEnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	a.json(w, http.StatusOK, promptEnhanceResponse{
		Prompt:   req.Prompt,
		Enhanced: a.Enhancer.Enhance(r.Context(), req.Prompt),
	})
}
