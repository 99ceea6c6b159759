package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/auth"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

const relatedCount = 4

// Handler exposes the storefront and admin console over HTTP.
type Handler struct {
	syncer     *Syncer
	auth       auth.Service
	sessionTTL time.Duration
}

func NewHandler(syncer *Syncer, authService auth.Service, sessionTTL time.Duration) *Handler {
	return &Handler{syncer: syncer, auth: authService, sessionTTL: sessionTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/home", h.home)                         // GET    /api/v1/home
		r.Get("/products", h.listProducts)             // GET    /api/v1/products?q=&category=
		r.Get("/products/{id}", h.getProduct)          // GET    /api/v1/products/{id}
		r.Get("/products/{id}/related", h.related)     // GET    /api/v1/products/{id}/related
		r.Get("/categories", h.listCategories)         // GET    /api/v1/categories
		r.Get("/settings", h.getSettings)              // GET    /api/v1/settings
		r.Get("/locations", h.listLocations)           // GET    /api/v1/locations
		r.Get("/cart", h.getCart)                      // GET    /api/v1/cart
		r.Post("/cart/items", h.addCartItem)           // POST   /api/v1/cart/items
		r.Patch("/cart/items/{id}", h.updateCartItem)  // PATCH  /api/v1/cart/items/{id}
		r.Delete("/cart/items/{id}", h.removeCartItem) // DELETE /api/v1/cart/items/{id}
		r.Get("/wishlist", h.getWishlist)              // GET    /api/v1/wishlist
		r.Post("/wishlist/{id}", h.toggleWishlist)     // POST   /api/v1/wishlist/{id}
		r.Post("/checkout", h.checkout)                // POST   /api/v1/checkout

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(h.auth))

			r.Get("/dashboard", h.dashboard)                 // GET    /api/v1/admin/dashboard
			r.Post("/sync", h.sync)                          // POST   /api/v1/admin/sync
			r.Get("/products", h.adminProducts)              // GET    /api/v1/admin/products
			r.Post("/products", h.createProduct)             // POST   /api/v1/admin/products
			r.Post("/products/seed", h.seedProducts)         // POST   /api/v1/admin/products/seed
			r.Put("/products/{id}", h.updateProduct)         // PUT    /api/v1/admin/products/{id}
			r.Delete("/products/{id}", h.deleteProduct)      // DELETE /api/v1/admin/products/{id}
			r.Post("/uploads/image", h.uploadImage)          // POST   /api/v1/admin/uploads/image
			r.Get("/categories", h.listCategories)           // GET    /api/v1/admin/categories
			r.Post("/categories", h.addCategory)             // POST   /api/v1/admin/categories
			r.Delete("/categories/{name}", h.deleteCategory) // DELETE /api/v1/admin/categories/{name}
			r.Get("/staff", h.listStaff)                     // GET    /api/v1/admin/staff
			r.Post("/staff", h.addStaff)                     // POST   /api/v1/admin/staff
			r.Delete("/staff/{id}", h.deleteStaff)           // DELETE /api/v1/admin/staff/{id}
			r.Get("/orders", h.listOrders)                   // GET    /api/v1/admin/orders
			r.Get("/orders/export", h.exportOrders)          // GET    /api/v1/admin/orders/export?format=csv|xlsx
			r.Patch("/orders/{id}/status", h.updateStatus)   // PATCH  /api/v1/admin/orders/{id}/status
			r.Get("/customers", h.listCustomers)             // GET    /api/v1/admin/customers
			r.Post("/customers/rebuild", h.rebuildCustomers) // POST   /api/v1/admin/customers/rebuild
			r.Put("/settings/{key}", h.updateSetting)        // PUT    /api/v1/admin/settings/{key}
		})
	})
}

// ── Public ──────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	snap := h.syncer.State().Snapshot()
	respond(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"mode":     h.syncer.Mode(),
		"lastSync": snap.LastSync,
	})
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	snap := h.syncer.State().Snapshot()
	respond(w, http.StatusOK, map[string]interface{}{
		"settings":   snap.Settings,
		"categories": snap.Categories,
		"sections":   catalog.Sections(snap.Products, snap.Categories),
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(w, http.StatusOK, catalog.Search(h.syncer.State().Products(), q.Get("q"), q.Get("category")))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.syncer.State().Product(param(r, "id"))
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) related(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")
	products := h.syncer.State().Products()
	if _, ok := catalog.Find(products, id); !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	respond(w, http.StatusOK, catalog.Related(products, id, relatedCount))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.State().Categories())
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.State().Settings())
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, order.Locations())
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.syncer.CartView(r.Context(), sessionID(w, r, h.sessionTTL))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.syncer.AddToCart(r.Context(), sessionID(w, r, h.sessionTTL), req.ProductID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.syncer.UpdateCartQuantity(r.Context(), sessionID(w, r, h.sessionTTL), param(r, "id"), req.Delta)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.syncer.RemoveFromCart(r.Context(), sessionID(w, r, h.sessionTTL), param(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) getWishlist(w http.ResponseWriter, r *http.Request) {
	list, err := h.syncer.Wishlist(r.Context(), sessionID(w, r, h.sessionTTL))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	list, in, err := h.syncer.ToggleWishlist(r.Context(), sessionID(w, r, h.sessionTTL), param(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"items": list, "inWishlist": in})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.syncer.Checkout(r.Context(), sessionID(w, r, h.sessionTTL), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

// ── Admin ───────────────────────────────────────────────

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.Dashboard())
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{}
	if err := h.syncer.Load(r.Context()); err != nil {
		body["warning"] = err.Error()
	}
	body["dashboard"] = h.syncer.Dashboard()
	respond(w, http.StatusOK, body)
}

func (h *Handler) adminProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.State().Products())
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.syncer.CreateProduct(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) seedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.syncer.SeedProducts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.syncer.UpdateProduct(r.Context(), param(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.DeleteProduct(r.Context(), param(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, catalog.MaxImageBytes+64*1024)
	file, _, err := r.FormFile("image")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, catalog.MaxImageBytes+1))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	dataURL, err := catalog.EncodeImage(data)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"url": dataURL})
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req catalog.Category
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	name, err := h.syncer.AddCategory(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, catalog.Category{Name: name})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.DeleteCategory(r.Context(), param(r, "name")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.State().Snapshot().Staff)
}

func (h *Handler) addStaff(w http.ResponseWriter, r *http.Request) {
	var req staff.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.syncer.AddStaff(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")
	if claims, ok := auth.FromContext(r.Context()); ok && claims.Id != "" && claims.Id == id {
		respond(w, http.StatusBadRequest, map[string]string{"error": "cannot delete the account you are signed in with"})
		return
	}
	if err := h.syncer.DeleteStaff(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.State().Snapshot().Orders)
}

func (h *Handler) exportOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.syncer.State().Snapshot().Orders
	stamp := time.Now().Format("2006-01-02")

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="orders-%s.csv"`, stamp))
		if err := order.WriteCSV(w, orders); err != nil {
			log.Printf("export: csv: %v", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="orders-%s.xlsx"`, stamp))
		if err := order.WriteXLSX(w, orders); err != nil {
			log.Printf("export: xlsx: %v", err)
		}
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unsupported format %q", format)})
	}
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req order.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	id := param(r, "id")
	status, err := h.syncer.UpdateOrderStatus(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"id": id, "status": status})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.syncer.State().Snapshot().Customers)
}

func (h *Handler) rebuildCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.syncer.RebuildCustomers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, customers)
}

func (h *Handler) updateSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	v, err := h.syncer.UpdateSetting(r.Context(), param(r, "key"), req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

// param returns a decoded URL parameter. chi matches on RawPath when the
// request carried escapes (order ids hold an escaped '#'), otherwise on the
// already decoded Path.
func param(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps the error taxonomy onto status codes.
func respondError(w http.ResponseWriter, err error) {
	code := http.StatusBadGateway
	switch {
	case apperr.IsValidation(err):
		code = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		code = http.StatusUnauthorized
	default:
		log.Printf("storefront: %v", err)
	}
	respond(w, code, map[string]string{"error": err.Error()})
}
