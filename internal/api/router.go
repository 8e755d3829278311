package api

import (
	"math/rand"
	"net/http"
	"time"

	"survivalcore/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    World: world,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// World is the entity store every reducer operates against (required).
	World *store.World

	// WSHub is the replication hub; handlers report its connection
	// count via /api/stats. Required when constructed via NewServer;
	// NewRouter substitutes an unstarted hub if nil so it remains
	// usable standalone in tests.
	WSHub *WebSocketHub

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local-dev origins.
	CORSOrigins []string

	// StaticFilesDir is the directory to serve static files from for the admin panel.
	// If empty, defaults to "./admin-panel".
	StaticFilesDir string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool

	// SessionManager is optional - if provided, admin routes will be protected
	SessionManager *SessionManager

	// EnableAdminAuth enables authentication for the admin panel (requires SessionManager)
	EnableAdminAuth bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	world *store.World
	wsHub *WebSocketHub
	rng   *rand.Rand
}

func (h *routerHandlers) now() time.Time { return time.Now() }

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It opens no network listeners. When cfg.RateLimiter is nil it
// creates an IPRateLimiter, whose constructor starts that limiter's
// cleanup goroutine; pass a RateLimiter to avoid that. It is safe to
// use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	wsHub := cfg.WSHub
	if wsHub == nil {
		wsHub = NewWebSocketHub()
	}

	h := &routerHandlers{
		world: cfg.World,
		wsHub: wsHub,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Post("/connect", h.handleConnect)

		r.Post("/equip/set_active_item", h.handleSetActiveItem)
		r.Post("/equip/clear_active_item", h.handleClearActiveItem)
		r.Post("/equip/load_ranged_weapon", h.handleLoadRangedWeapon)
		r.Post("/equip/use_equipped_item", h.handleUseEquippedItem)
		r.Post("/equip/equip_armor", h.handleEquipArmor)

		r.Post("/projectile/fire", h.handleFireProjectile)

		r.Post("/movement/update_player_position", h.handleUpdatePlayerPosition)
		r.Post("/movement/update_player_position_simple", h.handleUpdatePlayerPositionSimple)
		r.Post("/movement/update_player_facing_direction", h.handleUpdatePlayerFacingDirection)
		r.Post("/movement/set_sprinting", h.handleSetSprinting)
		r.Post("/movement/toggle_crouch", h.handleToggleCrouch)
		r.Post("/movement/jump", h.handleJump)
		r.Post("/movement/dodge_roll", h.handleDodgeRoll)

		r.Post("/deployable/place_shelter", h.handlePlaceShelter)
		r.Post("/deployable/toggle_campfire_burning", h.handleToggleCampfireBurning)

		r.Post("/container/quick_move_to", h.handleQuickMoveToContainer)
		r.Post("/container/quick_move_from", h.handleQuickMoveFromContainer)
		r.Post("/container/drop_from_player_slot", h.handleDropFromPlayerSlot)
	})

	staticDir := cfg.StaticFilesDir
	if staticDir == "" {
		staticDir = "./admin-panel"
	}

	r.Get("/login", handleLoginPage(cfg))
	r.Get("/logout", func(w http.ResponseWriter, req *http.Request) {
		if cfg.SessionManager != nil {
			cfg.SessionManager.HandleLogout(w, req)
		} else {
			http.Redirect(w, req, "/admin/", http.StatusFound)
		}
	})
	r.Get("/api/auth/status", func(w http.ResponseWriter, req *http.Request) {
		if cfg.SessionManager != nil {
			cfg.SessionManager.HandleAuthStatus(w, req)
		} else {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"authenticated":true,"message":"auth disabled"}`))
		}
	})

	if cfg.EnableAdminAuth && cfg.SessionManager != nil {
		r.Group(func(r chi.Router) {
			r.Use(cfg.SessionManager.AdminAuthMiddleware)
			r.Handle("/admin/*", http.StripPrefix("/admin/", http.FileServer(http.Dir(staticDir))))
			r.Get("/admin", func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, "/admin/", http.StatusMovedPermanently)
			})
		})
	} else {
		r.Handle("/admin/*", http.StripPrefix("/admin/", http.FileServer(http.Dir(staticDir))))
		r.Get("/admin", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/admin/", http.StatusMovedPermanently)
		})
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/admin/", http.StatusFound)
	})

	return r
}

// handleLoginPage returns the login page handler
func handleLoginPage(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.SessionManager != nil {
			session := cfg.SessionManager.ValidateSession(r)
			if session != nil {
				http.Redirect(w, r, "/admin/", http.StatusFound)
				return
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(loginPageHTML))
	}
}

// loginPageHTML is the embedded operator login page for the admin panel.
const loginPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Survival Core - Admin Login</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 50%, #0f3460 100%);
            min-height: 100vh; display: flex; align-items: center; justify-content: center; color: #fff;
        }
        .login-container {
            background: rgba(255, 255, 255, 0.05); backdrop-filter: blur(10px);
            border-radius: 20px; padding: 40px; width: 100%; max-width: 400px;
            border: 1px solid rgba(255, 255, 255, 0.1); box-shadow: 0 25px 50px rgba(0, 0, 0, 0.3);
        }
        .logo { text-align: center; margin-bottom: 30px; }
        .logo h1 {
            font-size: 2.5rem; background: linear-gradient(135deg, #4ecdc4, #44a08d);
            -webkit-background-clip: text; -webkit-text-fill-color: transparent; background-clip: text;
        }
        .logo p { color: #888; margin-top: 5px; }
        .field { margin-bottom: 16px; }
        .field label { display: block; margin-bottom: 6px; color: #aaa; font-size: 0.9rem; }
        .field input {
            width: 100%; padding: 12px 14px; border-radius: 10px; border: 1px solid rgba(255,255,255,0.15);
            background: rgba(255,255,255,0.05); color: #fff; font-size: 1rem;
        }
        .login-btn {
            width: 100%; padding: 16px 24px; margin-top: 8px;
            background: linear-gradient(135deg, #4ecdc4 0%, #44a08d 100%);
            color: #000; border: none; border-radius: 12px; font-size: 1.1rem; font-weight: 600; cursor: pointer;
        }
        .error-msg {
            background: rgba(255, 82, 82, 0.2); border: 1px solid rgba(255, 82, 82, 0.3);
            color: #ff5252; padding: 12px; border-radius: 8px; margin-bottom: 20px; text-align: center;
        }
    </style>
</head>
<body>
    <div class="login-container">
        <div class="logo">
            <h1>Survival Core</h1>
            <p>Admin Panel</p>
        </div>
        <div id="error" class="error-msg" style="display: none;"></div>
        <form method="post" action="/api/auth/login">
            <div class="field">
                <label for="identity">Identity</label>
                <input id="identity" name="identity" type="text" placeholder="admin identity">
            </div>
            <button class="login-btn" type="submit">Sign in</button>
        </form>
    </div>
    <script>
        const params = new URLSearchParams(window.location.search);
        if (params.get('error') === 'unauthorized') {
            document.getElementById('error').textContent = 'Access denied.';
            document.getElementById('error').style.display = 'block';
        }
    </script>
</body>
</html>
`

// GetRateLimiterFromRouter is a helper to extract the rate limiter from a configured router.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}

// snapshot returns every replicated table (§6.4: "all entity fields in
// §3.1 are replicated to subscribed clients verbatim").
func (h *routerHandlers) snapshot() map[string]interface{} {
	w := h.world
	return map[string]interface{}{
		"players":         w.Players.All(),
		"inventoryItems":  w.InventoryItems.All(),
		"activeEquipment": w.ActiveEquipment.All(),
		"projectiles":     w.Projectiles.All(),
		"animals":         w.Animals.All(),
		"campfires":       w.Campfires.All(),
		"shelters":        w.Shelters.All(),
		"storageBoxes":    w.StorageBoxes.All(),
		"stashes":         w.Stashes.All(),
		"sleepingBags":    w.SleepingBags.All(),
		"corpses":         w.Corpses.All(),
		"trees":           w.Trees.All(),
		"stones":          w.Stones.All(),
		"grass":           w.Grass.All(),
		"mushrooms":       w.Mushrooms.All(),
		"crops":           w.Crops.All(),
		"droppedItems":    w.DroppedItems.All(),
	}
}
