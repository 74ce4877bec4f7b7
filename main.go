package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wefitness/signup/pkg/api"
	"github.com/wefitness/signup/pkg/autofill"
	"github.com/wefitness/signup/pkg/clients/textmagic"
	"github.com/wefitness/signup/pkg/config"
	"github.com/wefitness/signup/pkg/logger"
	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/services"
	"github.com/wefitness/signup/pkg/sink"
	"github.com/wefitness/signup/pkg/wizard"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment only")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := logger.Configure(cfg.LogLevel); err != nil {
		logger.Warn("%v, using info", err)
	}

	// Submission sink; missing credentials leave it unconfigured
	store, closer, err := sink.FromConfig(cfg)
	if err != nil {
		logger.Error("Error opening submission sink: %v", err)
		os.Exit(1)
	}
	defer closer.Close()
	if u, ok := store.(sink.Unconfigured); ok {
		logger.Warn("Submissions are disabled: %s", u.Reason)
	}

	var textMagicClient textmagic.Client
	if cfg.HasTextMagic() {
		textMagicClient = textmagic.NewClient(cfg.TextMagicUsername, cfg.TextMagicAPIKey)
	}
	leads := services.NewLeadSubmissionService(store, textMagicClient)

	country, ok := models.LookupCountry(cfg.DefaultCountry)
	if !ok {
		logger.Warn("Unsupported DEFAULT_COUNTRY %q, using %s", cfg.DefaultCountry, models.DefaultCountryCode)
		country = models.DefaultCountry()
	}
	sessions := services.NewSessionService(func() *wizard.Controller {
		return wizard.New(leads, wizard.WithCountry(country))
	}, cfg.SessionTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx, time.Minute)

	gin.SetMode(cfg.GinMode)
	if err := api.RegisterValidators(); err != nil {
		logger.Error("Error registering validators: %v", err)
		os.Exit(1)
	}

	handlers := api.NewHandlers(sessions, autofillOptions(cfg)...)
	router := api.NewRouter(handlers, cfg.CORSAllowedOrigin)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error starting server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}
	services.Drain(leads)
}

// autofillOptions enables the single name autofill binding named in config.
func autofillOptions(cfg *config.Config) []api.Option {
	switch cfg.AutofillProvider {
	case config.AutofillQuery:
		return []api.Option{api.WithQueryAutofill(autofill.NewQueryParam("name"))}
	case config.AutofillInstagram:
		if !cfg.HasInstagram() {
			logger.Warn("Instagram autofill selected but not configured; visitors will type their name")
			return nil
		}
		states := autofill.NewStateSigner(cfg.OAuthStateSecret, 10*time.Minute)
		ig := autofill.NewInstagram(cfg.InstagramClientID, cfg.InstagramClientSecret, cfg.InstagramRedirectURL, states)
		return []api.Option{api.WithInstagramAutofill(ig)}
	case config.AutofillNone, "":
		return nil
	}
	logger.Warn("Unknown AUTOFILL_PROVIDER %q, autofill disabled", cfg.AutofillProvider)
	return nil
}
