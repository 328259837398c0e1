package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/httpx"
	"github.com/michat/michat/pkg/jwtx"
	"github.com/michat/michat/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	TokenService   *service.TokenService
	UserService    *service.UserService
	ProfileService *service.ProfileService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccess()
	r.registerProfile()
	r.registerAccount()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccess() {
	// POST /access/register - strict rate limit by IP (account creation)
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /access/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /access/authorize - strict rate limit by IP + login form field
	// to slow credential stuffing against a single account
	authorizeHandler := &AuthorizeHandler{
		AuthService:  r.AuthService,
		TokenService: r.TokenService,
	}
	r.Mux.Handle("POST /access/authorize",
		httpx.Chain(authorizeHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "login"),
		),
	)

	// GET /access/refresh - moderate rate limit by IP (token redemption)
	refreshHandler := &RefreshHandler{TokenService: r.TokenService}
	r.Mux.Handle("GET /access/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{ProfileService: r.ProfileService}

	// GET /v1/profile - authenticated read, lenient limit by user
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	// PUT /v1/profile - authenticated upsert, moderate limit by user
	securedPut := httpx.Chain(http.HandlerFunc(h.HandlePut),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/profile", securedGet)
	r.Mux.Handle("PUT /v1/profile", securedPut)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{UserService: r.UserService}

	secure := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("PATCH /v1/account/username", secure(h.HandleUsername))
	r.Mux.Handle("PATCH /v1/account/email", secure(h.HandleEmail))
	r.Mux.Handle("PATCH /v1/account/password", secure(h.HandlePassword))
	r.Mux.Handle("DELETE /v1/account", secure(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
