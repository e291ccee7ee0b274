// Package wiring assembles the application services over a metadata
// source.
package wiring

import (
	"context"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/repoforge/internal/infrastructure/github"
	"github.com/felixgeelhaar/repoforge/pkg/application"
	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/validation"
	"github.com/felixgeelhaar/repoforge/pkg/storage"
	"github.com/felixgeelhaar/repoforge/pkg/templates"
)

// AppServices exposes the wired application layer.
type AppServices struct {
	Provider   config.Provider
	Templates  *templates.Loader
	Resolution *application.ResolutionService
	Validation *application.ValidationService
}

// MetadataSource is anything that can serve both level configurations and
// template configurations.
type MetadataSource interface {
	config.Provider
	templates.Repository
}

// BuildAppServices wires the services over a local metadata directory.
// In strict mode, legacy bare scalars in global defaults are rejected.
func BuildAppServices(metadataDir string, strict bool, logger *slog.Logger) *AppServices {
	return buildFromSource(storage.NewFilesystemProvider(metadataDir, strict), logger)
}

// BuildAppServicesForGitHub wires the services over the GitHub API. The
// token falls back to the GITHUB_TOKEN environment variable.
func BuildAppServicesForGitHub(ctx context.Context, token string, strict bool, logger *slog.Logger) *AppServices {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	opts := []github.Option{}
	if strict {
		opts = append(opts, github.WithStrictParsing())
	}
	return buildFromSource(github.NewProvider(ctx, token, opts...), logger)
}

func buildFromSource(source MetadataSource, logger *slog.Logger) *AppServices {
	if logger == nil {
		logger = slog.Default()
	}
	loader := templates.NewLoader(source)
	validator := validation.NewValidator()
	return &AppServices{
		Provider:   source,
		Templates:  loader,
		Resolution: application.NewResolutionService(source, loader, validator, logger),
		Validation: application.NewValidationService(source, loader, validator, logger),
	}
}
