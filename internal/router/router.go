package router

import (
	"net/http"
	"strings"

	"makhana-store/internal/handler"
	"makhana-store/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	couponHandler *handler.CouponHandler,
	users middleware.UserResolver,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart handler function
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/" {
			switch r.Method {
			case http.MethodGet:
				cartHandler.Get(w, r)
			case http.MethodPost:
				cartHandler.Add(w, r)
			case http.MethodPut:
				cartHandler.Update(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		// Remaining cart routes carry a product ID path segment
		if r.Method == http.MethodDelete {
			cartHandler.Remove(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			switch r.Method {
			case http.MethodPost:
				orderHandler.Place(w, r)
			case http.MethodGet:
				orderHandler.List(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if r.Method == http.MethodGet {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Coupon management is admin-only; the advisory validate/calculate and
	// active-listing endpoints are open to any authenticated user.
	adminOnly := middleware.RequireAdmin(logger)
	couponAdminHandler := adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/coupons" || r.URL.Path == "/api/coupons/" {
			switch r.Method {
			case http.MethodGet:
				couponHandler.List(w, r)
			case http.MethodPost:
				couponHandler.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/coupons/code/") {
			couponHandler.GetByCode(w, r)
			return
		}

		switch r.Method {
		case http.MethodPut:
			couponHandler.Update(w, r)
		case http.MethodDelete:
			couponHandler.Delete(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))

	couponRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/coupons/validate":
			couponHandler.Validate(w, r)
		case "/api/coupons/calculate":
			couponHandler.Calculate(w, r)
		case "/api/coupons/active":
			couponHandler.ListActive(w, r)
		default:
			couponAdminHandler.ServeHTTP(w, r)
		}
	}

	mux.HandleFunc("/api/coupons", couponRouteHandler)
	mux.HandleFunc("/api/coupons/", couponRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Authenticate
	var h http.Handler = mux
	h = middleware.Authenticate(users, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
