package controller

import (
	"net/http"

	"github.com/canopy-network/stakex/app/api/types"
	"github.com/canopy-network/stakex/pkg/utils"
	"github.com/go-jose/go-jose/v4/json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const sessionCookie = "sx_session"

type Controller struct {
	App       *types.App
	APIToken  string
	Users     map[string]types.User
	JWTSecret []byte
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	apiToken := utils.Env("API_TOKEN", "")
	apiUser := utils.Env("API_USER", "operator")
	apiUsersJSON := utils.Env("API_USERS", "")
	apiPass := utils.Env("API_PASSWORD", "operator")
	jwtSecret := []byte(utils.Env("SESSION_SECRET", "change-me-please"))

	users := map[string]types.User{}
	if phash, err := utils.HashOrRead(apiPass); err == nil {
		users[apiUser] = types.User{Username: apiUser, Hash: phash}
	} else {
		app.Logger.Error("Unable to hash API_PASSWORD", zap.Error(err))
	}
	if apiUsersJSON != "" {
		if err := json.Unmarshal([]byte(apiUsersJSON), &users); err != nil {
			app.Logger.Error("Unable to parse API_USERS", zap.Error(err))
		}
	}

	return &Controller{
		App:       app,
		APIToken:  apiToken,
		Users:     users,
		JWTSecret: jwtSecret,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(c.Instrument)

	r.Handle("/api/health", http.HandlerFunc(c.HandleHealth)).Methods(http.MethodGet)
	if c.App.Metrics != nil {
		r.Handle("/metrics", c.App.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/api/auth/login", c.HandleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", c.HandleLogout).Methods(http.MethodPost)

	// Read side, public
	r.HandleFunc("/api/validators", c.HandleValidators).Methods(http.MethodGet)
	r.HandleFunc("/api/accounts/{id}/deposits", c.HandleDeposits).Methods(http.MethodGet)
	r.HandleFunc("/api/accounts/{id}/staking", c.HandleStakingState).Methods(http.MethodGet)
	r.HandleFunc("/api/accounts/{id}/validators/{validator}", c.HandleValidatorBalance).Methods(http.MethodGet)

	// Operations sign with the operator key
	r.Handle("/api/validators/refresh", c.RequireAuth(http.HandlerFunc(c.HandleValidatorsRefresh))).Methods(http.MethodPost)
	r.Handle("/api/operations/withdraw", c.RequireAuth(http.HandlerFunc(c.HandleWithdraw))).Methods(http.MethodPost)
	r.Handle("/api/operations/unstake", c.RequireAuth(http.HandlerFunc(c.HandleUnstake))).Methods(http.MethodPost)
	r.Handle("/api/operations/select", c.RequireAuth(http.HandlerFunc(c.HandleSelectPool))).Methods(http.MethodPost)

	// WebSocket endpoint for step events
	r.HandleFunc("/api/ws", c.HandleWebSocket).Methods(http.MethodGet)

	return r, nil
}

// writeJSON writes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
