package internal

import (
	"context"
	"io"
	"log/slog"

	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/portfolioservice"
)

// Export writes the stored content as a bundle to w.
func Export(ctx context.Context, w io.Writer, format bundle.Format, opts ...Option) error {
	return withService(opts, func(app *application, svc *portfolioservice.Service) error {
		data, err := svc.Export(ctx, format)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

// Import replaces the stored content with the bundle in data. It runs in
// any session state.
func Import(ctx context.Context, data []byte, opts ...Option) error {
	return withService(opts, func(app *application, svc *portfolioservice.Service) error {
		b, err := svc.Import(ctx, data, portfolioservice.SourceCLI)
		if err != nil {
			return err
		}
		app.logger.Info("import: applied",
			slog.Int("version", b.Version),
			slog.Int("overrides", len(b.Overrides)),
			slog.Time("exported_at", b.ExportedAt))
		return nil
	})
}

// Reset restores the built-in dataset and ends any open session.
func Reset(ctx context.Context, opts ...Option) error {
	return withService(opts, func(app *application, svc *portfolioservice.Service) error {
		_, err := svc.FactoryReset(ctx)
		return err
	})
}

// ServeMCP serves the read-only MCP tools on stdin/stdout.
func ServeMCP(_ context.Context, opts ...Option) error {
	return withService(opts, func(app *application, svc *portfolioservice.Service) error {
		app.logger.Info("mcp: serving on stdio")
		return mcpserver.New(svc).ServeStdio()
	})
}

func withService(opts []Option, fn func(*application, *portfolioservice.Service) error) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	c, err := build(app.config, app.logger, nil)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(app, c.svc)
}
