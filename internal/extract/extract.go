package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	appErr "github.com/casetrail/casetrail/internal/pkg/errors"
)

// Text pulls plain text out of an uploaded case file based on its
// extension. Unsupported formats are a caller error, not a crash.
func Text(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF(content)
	case ".md", ".markdown":
		return Markdown(content)
	case ".txt", ".text":
		return string(content), nil
	default:
		return "", fmt.Errorf("unsupported file type %q: %w", filepath.Ext(filename), appErr.ErrInvalid)
	}
}
