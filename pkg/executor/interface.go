package executor

import "context"

// Executor runs external commands such as the whisper.cpp binary.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	LookPath(name string) (string, error)
}
