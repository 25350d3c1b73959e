package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/item-purchase-service/internal/backend"
	"github.com/fairyhunter13/item-purchase-service/internal/catalog"
	"github.com/fairyhunter13/item-purchase-service/internal/checkout"
	"github.com/fairyhunter13/item-purchase-service/internal/config"
	"github.com/fairyhunter13/item-purchase-service/internal/model"
	"github.com/fairyhunter13/item-purchase-service/internal/obs"
	httpopenapi "github.com/fairyhunter13/item-purchase-service/internal/http/openapi"
	"github.com/fairyhunter13/item-purchase-service/internal/session"
)

// App wires the session registry and the backend into HTTP handlers.
type App struct {
	Cfg      config.Config
	Svc      backend.Service
	Registry *session.Registry
	started  time.Time
}

// purchaseCounter is implemented by backends that record purchases
// locally, such as the in-memory simulator.
type purchaseCounter interface {
	PurchaseCount() int
}

func NewApp(cfg config.Config, svc backend.Service, reg *session.Registry) *App {
	return &App{Cfg: cfg, Svc: svc, Registry: reg, started: time.Now()}
}

type createSessionReq struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
}

type createSessionResp struct {
	SessionID string `json:"session_id"`
	RequestID string `json:"request_id"`
	AccountID string `json:"account_id,omitempty"`
	Manager   bool   `json:"manager"`
	ItemCount int    `json:"item_count"`
}

type searchReq struct {
	Query string `json:"query"`
}

type addCartReq struct {
	ItemID string `json:"item_id"`
}

type addCartResp struct {
	NewLine bool             `json:"new_line"`
	Lines   []model.CartLine `json:"lines"`
}

type checkoutResp struct {
	PurchaseID string `json:"purchase_id"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (a *App) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var req createSessionReq
	if !decodeJSON(w, r, &req) {
		return
	}
	s := session.New(a.Svc, req.AccountID, req.UserID, a.Cfg.NotificationFeedCap)
	if err := a.Registry.Put(s); err != nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "session_cap_reached", "")
		return
	}
	ctx, cancel := contextWithTimeout(r, a.Cfg.StartTimeout)
	defer cancel()
	s.Start(ctx)
	resp := createSessionResp{
		SessionID: s.ID,
		RequestID: RequestIDFromContext(r.Context()),
		AccountID: s.AccountID,
		Manager:   s.Manager(),
		ItemCount: len(s.VisibleItems()),
	}
	WriteJSON(w, http.StatusCreated, resp)
	obs.Logger.Info("session_created",
		"request_id", resp.RequestID,
		"session_id", s.ID,
		"account_id", s.AccountID,
		"manager", resp.Manager,
		"item_count", resp.ItemCount,
	)
}

// sessionHandler routes /sessions/{id} and its subresources.
func (a *App) sessionHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if rest == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	id, sub, _ := strings.Cut(rest, "/")
	s, ok := a.Registry.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "session_not_found", "")
		return
	}
	switch sub {
	case "":
		a.deleteSession(w, r, s)
	case "items":
		a.sessionItems(w, r, s)
	case "filter":
		a.sessionFilter(w, r, s)
	case "search":
		a.sessionSearch(w, r, s)
	case "options":
		a.sessionOptions(w, r, s)
	case "cart":
		a.sessionCart(w, r, s)
	case "checkout":
		a.sessionCheckout(w, r, s)
	case "notifications":
		a.sessionNotifications(w, r, s)
	default:
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	}
}

func (a *App) deleteSession(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Method != http.MethodDelete {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	a.Registry.Remove(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) sessionItems(w http.ResponseWriter, r *http.Request, s *session.Session) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]any{"items": s.VisibleItems()})
	case http.MethodPost:
		a.createItem(w, r, s)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) createItem(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var item model.Item
	if !decodeJSON(w, r, &item) {
		return
	}
	ctx, cancel := contextWithTimeout(r, a.Cfg.CheckoutTimeout)
	defer cancel()
	err := s.CreateItem(ctx, item)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusCreated, item)
	case errors.Is(err, session.ErrNotManager):
		WriteJSONError(w, http.StatusForbidden, "forbidden", "item creation requires the manager role")
	default:
		var se *backend.ServiceError
		if errors.As(err, &se) {
			WriteJSONError(w, http.StatusUnprocessableEntity, se.Code, se.Message)
			return
		}
		WriteJSONError(w, http.StatusBadGateway, "creation_failed", backend.ErrorMessage(err))
	}
}

func (a *App) sessionFilter(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Method != http.MethodPut {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var f catalog.FilterState
	if !decodeJSON(w, r, &f) {
		return
	}
	s.SetFilter(f)
	WriteJSON(w, http.StatusOK, map[string]any{"items": s.VisibleItems()})
}

func (a *App) sessionSearch(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Method != http.MethodPut {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var req searchReq
	if !decodeJSON(w, r, &req) {
		return
	}
	s.SetSearch(req.Query)
	WriteJSON(w, http.StatusOK, map[string]any{"items": s.VisibleItems()})
}

func (a *App) sessionOptions(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	WriteJSON(w, http.StatusOK, s.Options())
}

func (a *App) sessionCart(w http.ResponseWriter, r *http.Request, s *session.Session) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]any{"lines": s.CartLines()})
	case http.MethodPost:
		var req addCartReq
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.ItemID == "" {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "item_id is required")
			return
		}
		newLine, err := s.AddToCart(req.ItemID)
		if err != nil {
			WriteJSONError(w, http.StatusNotFound, "item_not_found", err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, addCartResp{NewLine: newLine, Lines: s.CartLines()})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) sessionCheckout(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ctx, cancel := contextWithTimeout(r, a.Cfg.CheckoutTimeout)
	defer cancel()
	out := s.Checkout(ctx)
	switch out.Kind {
	case checkout.OutcomeCompleted:
		WriteJSON(w, http.StatusOK, checkoutResp{PurchaseID: out.PurchaseID})
	case checkout.OutcomeValidationFailed:
		WriteJSONError(w, http.StatusUnprocessableEntity, "validation_error", out.Message)
	case checkout.OutcomeBusy:
		WriteJSONError(w, http.StatusConflict, "checkout_in_progress", out.Message)
	default:
		WriteJSONError(w, http.StatusBadGateway, "submission_failed", out.Message)
	}
}

func (a *App) sessionNotifications(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	notes := s.Notifications()
	if notes == nil {
		notes = []model.Notification{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{
		"sessions_live":    a.Registry.Count(),
		"sessions_created": a.Registry.Created(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	if pc, ok := a.Svc.(purchaseCounter); ok {
		m["purchases_recorded"] = pc.PurchaseCount()
	}
	WriteJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
