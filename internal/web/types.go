package web

import (
	"botfarm/internal/activity"
	"botfarm/pkg/models"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AccountsRequest carries the raw "email:password" text from the accounts box.
type AccountsRequest struct {
	Accounts string `json:"accounts"`
}

type AccountsResponse struct {
	Count    int              `json:"count"`
	Accounts []models.Account `json:"accounts"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatsResponse struct {
	Stats      *models.FarmStats `json:"stats"`
	Uptime     string            `json:"uptime"`
	Logins     string            `json:"logins"`
	Monitoring bool              `json:"monitoring"`
}

type DeviceRow struct {
	models.DeviceStatus
	Task    string `json:"task"`
	Session string `json:"session"`
}

type LogResponse struct {
	Entries []activity.Entry `json:"entries"`
	Next    int              `json:"next"`
}

type KeywordsResponse struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   err,
	}
}
