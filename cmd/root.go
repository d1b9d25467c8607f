package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine"
	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	"github.com/AzielCF/watercooler-fc/aiengine/providers"
	"github.com/AzielCF/watercooler-fc/core/config"
	domainCache "github.com/AzielCF/watercooler-fc/domains/cache"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	domainRateLimit "github.com/AzielCF/watercooler-fc/domains/ratelimit"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/AzielCF/watercooler-fc/pkg/crypto"
	"github.com/AzielCF/watercooler-fc/pkg/utils"
	"github.com/AzielCF/watercooler-fc/repository"
	"github.com/AzielCF/watercooler-fc/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	appConfig *config.Config

	// Flags
	flagDebug    bool
	flagStore    string
	flagProvider string
	flagTimeout  time.Duration
	flagJSON     bool

	// Usecase
	store           domainStorage.IStore
	registryUsecase domainProvider.IRegistry
	cacheUsecase    domainCache.ICacheUsecase
	guardUsecase    domainRateLimit.IGuard
	footballUsecase *usecase.FootballService

	// AI Engine
	aiEngine *aiengine.Engine
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "watercooler",
	Short: "Watercooler FC, football small talk on demand",
	Long: `Watercooler FC summarises the week's football news, builds team insights and
writes one-line quotes for the office, using Gemini or OpenAI with web search.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()
	cobra.OnInitialize(initEnvConfig, initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"show debug logs --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagStore,
		"store", "",
		"",
		`storage backend --store <memory|gorm|sql|valkey> | example: --store=valkey (default: gorm)`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagProvider,
		"provider", "",
		"",
		`switch the active AI provider before running --provider <gemini|openai>`,
	)
	rootCmd.PersistentFlags().DurationVarP(
		&flagTimeout,
		"timeout", "",
		0,
		`per request timeout for AI calls --timeout <duration> | example: --timeout=30s (default: 45s)`,
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagJSON,
		"json", "",
		false,
		"print results as JSON",
	)

	_ = viper.BindPFlag("app_debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("store_driver", rootCmd.PersistentFlags().Lookup("store"))
}

func initEnvConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Flags override environment
	if viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}
	if driver := viper.GetString("store_driver"); driver != "" {
		cfg.Store.Driver = driver
	}
	if flagTimeout > 0 {
		cfg.AI.RequestTimeout = flagTimeout
	}
	appConfig = cfg
}

func initApp() {
	if appConfig.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	crypto.SetEncryptionKey(appConfig.Security.SecretKey)

	if appConfig.Store.Driver != domainStorage.DriverMemory {
		if err := utils.EnsureStorageDirectories(); err != nil {
			logrus.Errorln(err)
		}
	}

	ctx := context.Background()

	var err error
	store, err = repository.NewStore(ctx, appConfig)
	if err != nil {
		logrus.Fatalf("failed to open %s store: %v", appConfig.Store.Driver, err)
	}

	// 1. Registry, cache and guard share the store
	registryUsecase = usecase.NewRegistryService(store, appConfig.APIKeys.Gemini)
	cacheUsecase = usecase.NewCacheService(store, appConfig.Cache.TTL)

	errClassifier := classifier.New(classifier.Policy{
		DailyLimitPhrases:     appConfig.AI.DailyLimitPhrases,
		RateLimitPhrases:      appConfig.AI.RateLimitPhrases,
		AmbiguousQuotaPhrases: appConfig.AI.AmbiguousQuotaPhrases,
	})
	guardUsecase = usecase.NewGuardService(store, errClassifier, appConfig.AI.Cooldown)

	// 2. AI Engine
	aiEngine = aiengine.NewEngine(registryUsecase)
	aiEngine.RegisterProvider(providers.NewGeminiProvider(registryUsecase, providers.Options{
		Model:      appConfig.AI.GeminiModel,
		BaseURL:    appConfig.AI.GeminiBaseURL,
		Timeout:    appConfig.AI.RequestTimeout,
		MaxRetries: appConfig.AI.MaxRetries,
		Classifier: errClassifier,
	}))
	aiEngine.RegisterProvider(providers.NewOpenAIProvider(registryUsecase, providers.Options{
		Model:       appConfig.AI.OpenAIModel,
		SearchModel: appConfig.AI.OpenAISearchModel,
		BaseURL:     appConfig.AI.OpenAIBaseURL,
		Timeout:     appConfig.AI.RequestTimeout,
		MaxRetries:  appConfig.AI.MaxRetries,
		Classifier:  errClassifier,
	}))

	// 3. Football usecase
	footballUsecase = usecase.NewFootballService(aiEngine, registryUsecase, cacheUsecase, guardUsecase)

	if flagProvider != "" {
		p, ok := domainProvider.ParseIdentity(flagProvider)
		if !ok {
			logrus.Fatalf("unknown provider %q, use gemini or openai", flagProvider)
		}
		if err := registryUsecase.SetActiveProvider(ctx, p); err != nil {
			logrus.Fatalf("failed to switch provider: %v", err)
		}
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	StopApp()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// StopApp releases the store connection.
func StopApp() {
	if store != nil {
		if err := store.Close(); err != nil {
			logrus.WithError(err).Warn("[APP] Failed to close store")
		}
	}
}
