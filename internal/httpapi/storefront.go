package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const SessionCookie = "cart_session"

type storefrontHandler struct {
	sessions *session.Registry
	reporter *notify.Reporter
	log      logrus.FieldLogger
}

type cartResponse struct {
	Items       []domain.CartItem `json:"items"`
	TotalAmount int               `json:"totalAmount"`
	Subtotal    map[string]string `json:"subtotal"`
}

type addProductRequest struct {
	ProductID int64 `json:"productId"`
}

type updateAmountRequest struct {
	Amount *int `json:"amount"`
}

// NewStorefrontRouter exposes the session cart over HTTP. The session is
// identified by a cookie, issued on first contact.
func NewStorefrontRouter(sessions *session.Registry, reporter *notify.Reporter, log logrus.FieldLogger) *mux.Router {
	h := &storefrontHandler{
		sessions: sessions,
		reporter: reporter,
		log:      log,
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("storefront"), loggingMiddleware(log))

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/items", h.addProduct).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{productId:[0-9]+}", h.updateProductAmount).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{productId:[0-9]+}", h.removeProduct).Methods(http.MethodDelete)

	return r
}

func (h *storefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	// Reads without a session see an empty cart and create nothing.
	if sessionFromRequest(r) == "" {
		writeJSON(w, http.StatusOK, newCartResponse(domain.Cart{Items: []domain.CartItem{}}))
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(store.Cart()))
}

func (h *storefrontHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	err := store.AddProduct(r.Context(), req.ProductID)
	h.respond(w, r, store, notify.OpAdd, err)
}

func (h *storefrontHandler) removeProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "productId is not a number")
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	err = store.RemoveProduct(r.Context(), productID)
	h.respond(w, r, store, notify.OpRemove, err)
}

func (h *storefrontHandler) updateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "productId is not a number")
		return
	}

	var req updateAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	err = store.UpdateProductAmount(r.Context(), productID, *req.Amount)
	h.respond(w, r, store, notify.OpUpdate, err)
}

func (h *storefrontHandler) respond(w http.ResponseWriter, r *http.Request, store *cart.Store, op notify.Op, err error) {
	toast, failed := h.reporter.Report(r.Context(), op, err)
	if !failed {
		writeJSON(w, http.StatusOK, newCartResponse(store.Cart()))
		return
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"op":       op,
		"owner_id": store.OwnerID(),
	}).Info("cart operation failed")

	writeError(w, statusFor(err), toast.Message)
}

func (h *storefrontHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sessionID := sessionFromRequest(r)
	if sessionID == "" {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	store, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.log.WithError(err).Error("failed to load cart")
		writeError(w, http.StatusServiceUnavailable, "cart is unavailable")
		return nil, false
	}

	return store, true
}

func sessionFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}

	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}

	return cookie.Value
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newCartResponse(c domain.Cart) cartResponse {
	subtotal := make(map[string]string)
	for unit, amount := range c.Subtotal() {
		subtotal[unit.String()] = amount.StringFixed(2)
	}

	return cartResponse{
		Items:       c.Items,
		TotalAmount: c.TotalAmount(),
		Subtotal:    subtotal,
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
