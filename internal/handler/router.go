package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"datenight/internal/handler/api"
	"datenight/internal/handler/middleware"
	"datenight/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	eventHandler *api.EventHandler,
	signupHandler *api.SignupHandler,
	purchaseHandler *api.PurchaseHandler,
	meHandler *api.MeHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, eventHandler, signupHandler, purchaseHandler, meHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	eventHandler *api.EventHandler,
	signupHandler *api.SignupHandler,
	purchaseHandler *api.PurchaseHandler,
	meHandler *api.MeHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		events := apiGroup.Group("/events")
		events.Use(authMiddleware.RequireAuth())
		{
			addRoutes(events, []route{
				{Method: http.MethodGet, Path: "", Handler: eventHandler.ListEvents},
				{Method: http.MethodGet, Path: "/:id", Handler: eventHandler.GetEvent},
				{Method: http.MethodPost, Path: "/:id/signup", Handler: signupHandler.Signup},
				{Method: http.MethodDelete, Path: "/:id/signup", Handler: signupHandler.CancelSignup},
			})
		}

		purchases := apiGroup.Group("/purchases")
		purchases.Use(authMiddleware.RequireAuth())
		{
			addRoutes(purchases, []route{
				{Method: http.MethodPost, Path: "", Handler: purchaseHandler.CompletePurchase},
			})
		}

		me := apiGroup.Group("/me")
		me.Use(authMiddleware.RequireAuth())
		{
			addRoutes(me, []route{
				{Method: http.MethodGet, Path: "/signups", Handler: meHandler.GetSignups},
				{Method: http.MethodGet, Path: "/credits", Handler: meHandler.GetCredits},
				{Method: http.MethodGet, Path: "/cart", Handler: meHandler.GetCart},
				{Method: http.MethodPost, Path: "/cart/items", Handler: meHandler.AddCartItem},
				{Method: http.MethodDelete, Path: "/cart", Handler: meHandler.ClearCart},
				{Method: http.MethodPost, Path: "/reconcile", Handler: meHandler.Reconcile},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
