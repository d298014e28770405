package script

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/nfrund/patterns/internal/events"
)

// ScriptHandler is a registry subscriber backed by a compiled script.
type ScriptHandler struct {
	compiled *CompiledScript
	topic    string
	handle   *events.Handler

	mu   sync.Mutex
	last interface{}
}

// NewHandler compiles script and wraps it as a subscriber for topic. Each
// publish runs the script with "args" and "topic" bound, under a timeout
// derived from ctx.
func (e *TengoEngine) NewHandler(ctx context.Context, topic string, script *Script) (*ScriptHandler, error) {
	compiled, err := e.Compile(script)
	if err != nil {
		return nil, err
	}

	sh := &ScriptHandler{
		compiled: compiled,
		topic:    topic,
	}
	sh.handle = events.NewNamedHandler("script:"+script.Name, func(args ...any) error {
		result, err := e.Execute(ctx, compiled, topic, args)
		if err != nil {
			return err
		}
		sh.mu.Lock()
		sh.last = result
		sh.mu.Unlock()
		return nil
	})
	return sh, nil
}

// Handle returns the registry handle to Subscribe or Unsubscribe.
func (sh *ScriptHandler) Handle() *events.Handler {
	return sh.handle
}

// Topic returns the topic the script was built for.
func (sh *ScriptHandler) Topic() string {
	return sh.topic
}

// LastResult returns the "result" value of the most recent successful run.
func (sh *ScriptHandler) LastResult() interface{} {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.last
}

// LoadFile reads a script from fsys. The script is named after the file
// without its extension.
func LoadFile(fsys afero.Fs, path string) (*Script, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewScriptError(ErrorTypeNotFound, path, "script file not found", err)
		}
		return nil, err
	}

	base := filepath.Base(path)
	return &Script{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Content: string(content),
	}, nil
}
