package di

import (
	"context"
	"fmt"
	"time"

	"autofill-agent/internal/adapter/message"
	"autofill-agent/internal/application/port/input"
	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/patterns"
	"autofill-agent/internal/infrastructure/browser/rod"
	"autofill-agent/internal/infrastructure/env"
	"autofill-agent/internal/infrastructure/llm/openrouter"
	"autofill-agent/internal/infrastructure/logger"
	"autofill-agent/internal/infrastructure/patternsfile"
	"autofill-agent/internal/infrastructure/tracker"
	"autofill-agent/internal/usecase/autofill"
	"autofill-agent/internal/usecase/classifier"
	"autofill-agent/internal/usecase/dropdown"
	"autofill-agent/internal/usecase/filler"
)

type Container struct {
	Logger     output.LoggerPort
	Patterns   *patterns.Table
	Classifier *classifier.Classifier
	Autofiller input.Autofiller
	// Browser is nil when the container was built without one.
	Browser output.BrowserPort
	// Tracker is nil when no tracker URL is configured.
	Tracker output.TrackerPort
	Handler *message.Handler
}

type Config struct {
	Logger       logger.Config
	Browser      rod.BrowserConfig
	WithBrowser  bool
	PatternsFile string
	TrackerURL   string
	LLMAPIKey    string
	LLMModel     string
	LLMBaseURL   string
	HTTPAddr     string
	Autofill     autofill.Config
	Filler       filler.Config
	Dropdown     dropdown.Config
}

func DefaultConfig() Config {
	return Config{
		Logger:      logger.DefaultConfig("autofill"),
		Browser:     rod.DefaultConfig(),
		WithBrowser: true,
		Autofill:    autofill.DefaultConfig(),
		Filler:      filler.DefaultConfig(),
		Dropdown:    dropdown.DefaultConfig(),
	}
}

// ConfigFromEnv overlays AUTOFILL_* settings on the defaults.
func ConfigFromEnv(e output.ConfigPort) Config {
	cfg := DefaultConfig()

	cfg.Logger.Level = e.GetWithDefault(env.KeyLogLevel, cfg.Logger.Level)
	cfg.Logger.Dir = e.GetWithDefault(env.KeyLogDir, cfg.Logger.Dir)

	cfg.Browser.Headless = e.GetBool(env.KeyHeadless, cfg.Browser.Headless)
	cfg.Browser.Timeout = e.GetDuration(env.KeyBrowserTimeout, cfg.Browser.Timeout)

	cfg.PatternsFile = e.Get(env.KeyPatternsFile)
	cfg.TrackerURL = e.Get(env.KeyTrackerURL)
	cfg.LLMAPIKey = e.Get(env.KeyLLMAPIKey)
	cfg.LLMModel = e.GetWithDefault(env.KeyLLMModel, openrouter.DefaultModel)
	cfg.LLMBaseURL = e.GetWithDefault(env.KeyLLMBaseURL, openrouter.DefaultBaseURL)
	cfg.HTTPAddr = e.Get(env.KeyHTTPAddr)

	cfg.Autofill.RetryDelay = e.GetDuration(env.KeyRetryDelay, cfg.Autofill.RetryDelay)
	cfg.Autofill.ValidationDelay = e.GetDuration(env.KeyValidationDelay, cfg.Autofill.ValidationDelay)
	cfg.Filler.VerifyDelay = e.GetDuration(env.KeyVerifyDelay, cfg.Filler.VerifyDelay)
	cfg.Dropdown.PollAttempts = e.GetInt(env.KeyDropdownPollAttempts, cfg.Dropdown.PollAttempts)
	cfg.Dropdown.PollDelay = e.GetDuration(env.KeyDropdownPollDelay, cfg.Dropdown.PollDelay)

	return cfg
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return build(ctx, cfg, log)
}

// NewContainerWithLogger wires everything around an existing logger.
func NewContainerWithLogger(ctx context.Context, cfg Config, log output.LoggerPort) (*Container, error) {
	return build(ctx, cfg, log)
}

func build(ctx context.Context, cfg Config, log output.LoggerPort) (*Container, error) {
	table := patterns.Default()
	if cfg.PatternsFile != "" {
		loaded, err := patternsfile.LoadFile(cfg.PatternsFile, table)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to load patterns: %w", err)
		}
		table = loaded
		log.Info("Pattern overrides loaded", "file", cfg.PatternsFile, "sites", len(table.Sites))
	}

	var clsOpts []classifier.Option
	if cfg.LLMAPIKey != "" {
		hcfg := openrouter.DefaultConfig(cfg.LLMAPIKey)
		hcfg.Model = cfg.LLMModel
		hcfg.BaseURL = cfg.LLMBaseURL
		hinter := openrouter.NewHinter(hcfg, log.WithField("component", "hinter"))
		clsOpts = append(clsOpts, classifier.WithHinter(hinter))
		log.Info("Field hinter enabled", "model", cfg.LLMModel)
	}

	cls := classifier.New(table, log.WithField("component", "classifier"), clsOpts...)
	uc := autofill.New(
		cfg.Autofill,
		cls,
		filler.New(cfg.Filler, log.WithField("component", "filler")),
		dropdown.New(cfg.Dropdown, table, log.WithField("component", "dropdown")),
		log,
	)

	c := &Container{
		Logger:     log,
		Patterns:   table,
		Classifier: cls,
		Autofiller: uc,
	}

	if cfg.TrackerURL != "" {
		c.Tracker = tracker.NewClient(tracker.DefaultConfig(cfg.TrackerURL), log.WithField("component", "tracker"))
	}

	var pages message.PageOpener = func(context.Context, string) (output.PageModel, error) {
		return nil, fmt.Errorf("no browser available")
	}
	if cfg.WithBrowser {
		browser, err := rod.NewBrowserAdapter(ctx, cfg.Browser)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		c.Browser = browser
		pages = message.BrowserPages(browser)
	}

	var handlerOpts []message.Option
	if c.Tracker != nil {
		handlerOpts = append(handlerOpts, message.WithTracker(c.Tracker))
	}
	c.Handler = message.NewHandler(uc, pages, log.WithField("component", "message"), handlerOpts...)

	return c, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

// DefaultRunTimeout caps one CLI invocation.
const DefaultRunTimeout = 5 * time.Minute
