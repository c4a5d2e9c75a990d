// Package holdings loads the per-account holdings document that feeds
// aggregation. The document is read fresh on every call; nothing is cached
// between calls and callers never see partially-loaded data.
package holdings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rai-openclaw/mission-control/internal/apperrors"
	"github.com/rai-openclaw/mission-control/internal/model"
)

// Source provides the raw holdings document. A failure to load is fatal to
// the calling operation and wraps apperrors.ErrSourceUnavailable.
type Source interface {
	Load() (model.HoldingsDocument, error)
}

// FileSource reads holdings from a JSON document on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given holdings file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the holdings document. Any read or decode failure
// wraps apperrors.ErrSourceUnavailable; there is no partial result.
func (s *FileSource) Load() (model.HoldingsDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.HoldingsDocument{}, fmt.Errorf("%w: reading %s: %v", apperrors.ErrSourceUnavailable, s.path, err)
	}

	var doc model.HoldingsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.HoldingsDocument{}, fmt.Errorf("%w: decoding %s: %v", apperrors.ErrSourceUnavailable, s.path, err)
	}

	return doc, nil
}
