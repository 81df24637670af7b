package router

import (
	"net/http"
	"time"

	"synapse-go/internal/config"
	"synapse-go/internal/games"
	"synapse-go/internal/handlers"
	"synapse-go/internal/reporting"
	"synapse-go/internal/screening"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

func Setup(log *zap.Logger, manager *games.Manager, reporter *reporting.Client, screeningDef *screening.Definition) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("synapse_session", store))

	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(log)
	gamesHandler := handlers.NewGamesHandler(log, manager, reporter)
	screeningHandler := handlers.NewScreeningHandler(log, screeningDef, config.Conf.Games.RegistrationSeconds)
	moodHandler := handlers.NewMoodHandler(log)
	onboardingHandler := handlers.NewOnboardingHandler(log)
	dashboardHandler := handlers.NewDashboardHandler(log)
	rewardsHandler := handlers.NewRewardsHandler(log)
	eegHandler := handlers.NewEEGHandler(log, reporter)

	// Brute-force protection on the credential endpoints only.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")

	api.GET("/csrf", func(c *gin.Context) {
		token, _ := c.Get(csrfTokenContextKey)
		c.JSON(http.StatusOK, gin.H{"csrfToken": token})
	})
	api.POST("/register", limiter, authHandler.Register)
	api.POST("/login", limiter, authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	authorized := api.Group("/")
	authorized.Use(AuthRequired())
	{
		authorized.GET("/me", authHandler.Me)
		authorized.POST("/children", authHandler.CreateChild)

		onboardingRoutes := authorized.Group("/onboarding")
		{
			onboardingRoutes.GET("", onboardingHandler.State)
			onboardingRoutes.POST("/answer", onboardingHandler.Answer)
			onboardingRoutes.POST("/advance", onboardingHandler.Advance)
			onboardingRoutes.POST("/back", onboardingHandler.Back)
		}

		gameRoutes := authorized.Group("/games")
		{
			gameRoutes.POST("/:kind/start", gamesHandler.Start)
			gameRoutes.GET("/sessions/:id", gamesHandler.State)
			gameRoutes.POST("/sessions/:id/tap", gamesHandler.Tap)
			gameRoutes.POST("/sessions/:id/flip", gamesHandler.Flip)
			gameRoutes.POST("/sessions/:id/pick", gamesHandler.Pick)
			gameRoutes.POST("/sessions/:id/stimulus", gamesHandler.Present)
			gameRoutes.POST("/sessions/:id/click", gamesHandler.Click)
			gameRoutes.POST("/sessions/:id/expire", gamesHandler.Expire)
			gameRoutes.POST("/sessions/:id/finish", gamesHandler.Finish)
			gameRoutes.DELETE("/sessions/:id", gamesHandler.Abandon)
		}

		screeningRoutes := authorized.Group("/screening")
		{
			screeningRoutes.POST("/start", screeningHandler.Start)
			screeningRoutes.GET("/state", screeningHandler.State)
			screeningRoutes.POST("/answer", screeningHandler.Answer)
			screeningRoutes.POST("/tick", screeningHandler.Tick)
			screeningRoutes.POST("/next", screeningHandler.Next)
			screeningRoutes.POST("/prev", screeningHandler.Prev)
		}

		authorized.POST("/mood", moodHandler.Record)
		authorized.GET("/mood", moodHandler.Recent)

		dashboardRoutes := authorized.Group("/dashboard")
		{
			dashboardRoutes.GET("/summary", dashboardHandler.Summary)
			dashboardRoutes.GET("/timeline", dashboardHandler.Timeline)
			dashboardRoutes.GET("/mood-correlation", dashboardHandler.MoodCorrelation)
		}

		authorized.GET("/rewards", rewardsHandler.Show)

		eegRoutes := authorized.Group("/eeg")
		{
			eegRoutes.POST("/process", eegHandler.ProcessCSV)
			eegRoutes.GET("/report", eegHandler.DownloadReport)
			eegRoutes.POST("/whatsapp", eegHandler.SendWhatsApp)
		}
		authorized.POST("/media/video", eegHandler.UploadVideo)
	}

	return router
}
