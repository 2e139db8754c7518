package platform

import (
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogger installs the text logger every service writes to stdout.
// Source locations are trimmed to the file name.
func SetupLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source := a.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return a
		},
	}))
	slog.SetDefault(logger)
}
