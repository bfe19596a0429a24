package executor

import "context"

// Executor runs external tools (ffmpeg, whisper.cpp).
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
	// LookPath resolves name against PATH, or checks it directly when it
	// contains a path separator.
	LookPath(name string) (string, error)
}
