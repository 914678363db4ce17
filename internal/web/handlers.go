package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"botfarm/internal/controller"
	"botfarm/internal/keywords"
	"botfarm/internal/scenario"
	"botfarm/internal/utils"
	"botfarm/pkg/models"
)

var badRequestErrors = []error{
	controller.ErrNoScenario,
	controller.ErrAccountsRequired,
	controller.ErrNoDevice,
	controller.ErrInvalidDeviceID,
	controller.ErrNoProfileFile,
	controller.ErrInvalidProfile,
	scenario.ErrNoType,
	scenario.ErrUnknownType,
	scenario.ErrNoYouTubeURLs,
	scenario.ErrNoTrafficURLs,
	scenario.ErrNoKeywords,
	scenario.ErrInvalidCustom,
	scenario.ErrNoCustomTasks,
}

// errorStatus maps operator mistakes to 400. Anything else came from the
// farm backend or the transport to it.
func errorStatus(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusBadGateway
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, NewSuccessResponse(s.ctrl.CurrentScenario()))

	case http.MethodPost:
		var cfg models.ScenarioConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid JSON request")
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		if err := s.ctrl.SaveScenario(ctx, cfg); err != nil {
			status := errorStatus(err)
			if status == http.StatusBadGateway {
				status = http.StatusInternalServerError
			}
			s.writeError(w, status, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, NewSuccessResponse(s.ctrl.CurrentScenario()))

	case http.MethodDelete:
		if err := s.ctrl.ClearScenario(); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, NewSuccessResponse(MessageResponse{Message: "Scenario cleared"}))

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cfg, err := scenario.Preset(models.ScenarioType(r.URL.Query().Get("type")))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(cfg))
}

func (s *Server) decodeAccounts(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return "", false
	}

	var req AccountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON request")
		return "", false
	}
	return req.Accounts, true
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeAccounts(w, r)
	if !ok {
		return
	}

	plan, err := s.ctrl.Plan(text)
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(plan))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeAccounts(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.ctrl.StartFarm(ctx, text); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(MessageResponse{Message: "Bot farm started successfully"}))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.ctrl.StopFarm(ctx); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(MessageResponse{Message: "Bot farm stopped successfully"}))
}

func (s *Server) handleForceStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.ctrl.ForceStopFarm(ctx); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(MessageResponse{Message: "Bot farm force stopped successfully"}))
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeAccounts(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	accts, err := s.ctrl.UpdateAccounts(ctx, text)
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(AccountsResponse{Count: len(accts), Accounts: accts}))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, _ := s.ctrl.Snapshot()
	if stats == nil || r.URL.Query().Get("refresh") == "1" {
		ctx, cancel := s.requestContext(r)
		defer cancel()

		fresh, err := s.ctrl.RefreshStats(ctx)
		if err != nil {
			s.writeError(w, errorStatus(err), err.Error())
			return
		}
		stats = fresh
	}

	s.writeJSON(w, http.StatusOK, NewSuccessResponse(StatsResponse{
		Stats:      stats,
		Uptime:     utils.FormatUptime(stats.Uptime),
		Logins:     utils.LoginRatio(*stats),
		Monitoring: s.ctrl.IsMonitoring(),
	}))
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	_, devices := s.ctrl.Snapshot()
	if len(devices) == 0 || r.URL.Query().Get("refresh") == "1" {
		ctx, cancel := s.requestContext(r)
		defer cancel()

		fresh, err := s.ctrl.RefreshDevices(ctx)
		if err != nil {
			s.writeError(w, errorStatus(err), err.Error())
			return
		}
		devices = fresh
	}

	rows := make([]DeviceRow, 0, len(devices))
	for _, id := range utils.SortedIDs(devices) {
		d := devices[id]
		rows = append(rows, DeviceRow{
			DeviceStatus: d,
			Task:         utils.TaskLabel(d),
			Session:      utils.SessionMinutes(d.SessionDuration),
		})
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(rows))
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	since, _ := strconv.Atoi(r.URL.Query().Get("since"))
	log := s.ctrl.Log()
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(LogResponse{
		Entries: log.Since(since),
		Next:    log.Len(),
	}))
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = keywords.DefaultCategory
	}
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		count = 10
	}

	s.writeJSON(w, http.StatusOK, NewSuccessResponse(KeywordsResponse{
		Category: category,
		Keywords: s.ctrl.Keywords(category, count),
	}))
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	profiles, err := s.ctrl.ListProfiles(ctx)
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(profiles))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// /api/profiles/{deviceId}
	deviceID := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	if deviceID == "" || strings.Contains(deviceID, "/") {
		s.writeError(w, http.StatusBadRequest, "Device ID is required in URL path")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.ctrl.DeleteProfile(ctx, deviceID); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse(MessageResponse{Message: "Deleted profile for " + deviceID}))
}
