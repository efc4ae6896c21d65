package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading catalog files from the local
// file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a JSON catalog file and returns the parsed catalog.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*SeedCatalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog file")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalog file")
		return nil, fmt.Errorf("failed to read catalog file %s: %w", filePath, err)
	}

	catalog, err := parseCatalog(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("invalid catalog file")
		return nil, fmt.Errorf("invalid catalog file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("categories", len(catalog.Categories)).
		Int("products", len(catalog.Products)).
		Msg("catalog file loaded successfully")

	return catalog, nil
}

// parseCatalog decodes and validates raw catalog JSON.
func parseCatalog(data []byte) (*SeedCatalog, error) {
	var catalog SeedCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}
