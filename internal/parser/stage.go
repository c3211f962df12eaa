package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-rag/internal/helper"

	"github.com/rs/zerolog/log"
)

// Stage copies an uploaded document into a uniquely named temp file that
// keeps the upload's extension. The returned release func removes it and
// must be called once the file is no longer needed.
func Stage(r io.Reader, filename string) (string, func(), error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return "", nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}

	f, err := os.CreateTemp("", "resume-"+id+"-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	release := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove staged document")
		}
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		release()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	log.Debug().Str("path", path).Msg("Staged document")
	return path, release, nil
}
