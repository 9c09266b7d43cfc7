package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/fx"

	"poirec/cmd/fx/catalog_fx"
	"poirec/cmd/fx/config_fx"
	"poirec/cmd/fx/controllers_fx"
	"poirec/cmd/fx/db_fx"
	"poirec/cmd/fx/fetch_fx"
	"poirec/cmd/fx/poi_embedded_fx"
	poisfx "poirec/cmd/fx/pois_fx"
	"poirec/cmd/fx/recommend_fx"
	"poirec/internal/api/controllers"
	"poirec/internal/config"
	"poirec/pkg/logger"
	"poirec/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		poisfx.Module,
		poi_embedded_fx.Module,
		fetch_fx.Module,
		catalog_fx.Module,
		recommend_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	var handler http.Handler = engine
	if len(cfg.Server.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		}).Handler(engine)
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config           *config.Config
	PoisController   *controllers.POIsController
	RecsController   *controllers.RecommendationsController
	PageController   *controllers.PageController
	HealthController *controllers.HealthController
}

func ProvideRouter(p routerParams) *gin.Engine {
	gin.SetMode(p.Config.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.SetHTMLTemplate(controllers.Templates())

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p routerParams) {
	r.GET("/", p.PageController.Index)
	r.GET("/healthz", p.HealthController.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if p.Config.Server.RateLimit > 0 {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(p.Config.Server.RateLimit, p.Config.Server.RateBurst)))
	}
	poisGroup := api.Group("/pois")
	poisGroup.GET("", p.PoisController.ListPois)
	poisGroup.GET("/:id", p.PoisController.GetPoiById)

	api.GET("/recommendations/:id", p.RecsController.GetRecommendations)
}
