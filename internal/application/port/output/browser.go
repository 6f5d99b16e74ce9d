package output

import (
	"context"

	"autofill-agent/internal/domain/entity"
)

// BrowserPort owns a live browser and hands out page models for it.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Page(ctx context.Context) (PageModel, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	// HTML returns the serialized DOM of the current page.
	HTML(ctx context.Context) (string, error)

	CurrentURL() string
	Close()
}
