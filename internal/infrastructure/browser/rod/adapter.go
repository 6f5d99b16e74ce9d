package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultTimeout   = 30 * time.Second
	defaultIdle      = 2 * time.Second
	maxScreenshotPix = 1024
)

type BrowserConfig struct {
	Headless   bool
	NoSandbox  bool
	SlowMotion time.Duration
	// Timeout bounds navigation and page loading.
	Timeout time.Duration
	// Bin is an explicit browser binary. Empty lets the launcher find or
	// download one.
	Bin string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:  true,
		NoSandbox: true,
		Timeout:   defaultTimeout,
	}
}

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	// model is handed out for every request so that concurrent requests on
	// the tab share one identity.
	model    *PageModel
	timeout  time.Duration
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url).SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		model:    NewPageModel(page),
		timeout:  cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	p := b.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	_ = p.WaitIdle(defaultIdle)
	return nil
}

func (b *BrowserAdapter) Page(ctx context.Context) (output.PageModel, error) {
	if b.model == nil {
		return nil, fmt.Errorf("browser has no page")
	}
	return b.model, nil
}

func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	src, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("html snapshot failed: %w", err)
	}
	return src, nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotPix {
		img = imaging.Resize(img, maxScreenshotPix, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
}
