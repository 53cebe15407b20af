package models

import (
	"github.com/mrwolf/companion-server/internal/chat"
	"github.com/mrwolf/companion-server/internal/db"
	"github.com/mrwolf/companion-server/internal/persona"
)

// PersonaResponse is returned by the persona endpoints
type PersonaResponse struct {
	Persona persona.Persona `json:"persona"`
	Status  string          `json:"status,omitempty"` // "Persona updated", "Persona reset"
}

// TextRequest adds raw text to the dataset
type TextRequest struct {
	Text string `json:"text"`
}

// DatasetResponse carries the rendered dataset. On a failed load Dataset holds
// the failure string instead of the lines.
type DatasetResponse struct {
	Dataset string   `json:"dataset"`
	Lines   []string `json:"lines"`
	Info    string   `json:"info"`
}

// OCRResponse is returned after adding a manga page
type OCRResponse struct {
	ExtractedText string `json:"extracted_text"`
	Dataset       string `json:"dataset"`
	Info          string `json:"info"`
}

// ChatRequest is a user message
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the whole conversation after the turn
type ChatResponse struct {
	History chat.Log `json:"history"`
}

// ActivityResponse lists recent session activity
type ActivityResponse struct {
	Activity []db.Activity `json:"activity"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Dataset  string `json:"dataset"`
	Session  string `json:"session"`
	Version  string `json:"version"`
}

// AboutResponse describes the service
type AboutResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}
