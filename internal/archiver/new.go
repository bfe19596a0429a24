package archiver

import (
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
)

// Dirs are the active output directories and the archive root.
type Dirs struct {
	Transcriptions string
	Summaries      string
	Processed      string
	Archive        string
}

type implArchiver struct {
	dirs   Dirs
	logger logger.Logger
	now    func() time.Time
}

// New creates an Archiver over dirs.
func New(dirs Dirs, log logger.Logger) Archiver {
	return &implArchiver{
		dirs:   dirs,
		logger: log,
		now:    time.Now,
	}
}
