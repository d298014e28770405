package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/patterns/internal/events"
)

func requireScriptError(t *testing.T, err error, want ErrorType) {
	t.Helper()
	var scriptErr *ScriptError
	require.True(t, errors.As(err, &scriptErr), "expected *ScriptError, got %v", err)
	assert.Equal(t, want, scriptErr.Type)
}

func TestTengoEngine_Execute(t *testing.T) {
	engine := NewTengoEngine()
	ctx := context.Background()

	t.Run("Reads args", func(t *testing.T) {
		compiled, err := engine.Compile(&Script{Name: "double", Content: `result := args[0] * 2`})
		require.NoError(t, err)

		result, err := engine.Execute(ctx, compiled, "T", []any{21})
		require.NoError(t, err)
		assert.Equal(t, int64(42), result)
	})

	t.Run("Reads topic", func(t *testing.T) {
		compiled, err := engine.Compile(&Script{Name: "topic", Content: `result := topic + ":" + string(len(args))`})
		require.NoError(t, err)

		result, err := engine.Execute(ctx, compiled, "squareMeter88", []any{"a", uint8(1)})
		require.NoError(t, err)
		assert.Equal(t, "squareMeter88:2", result)
	})

	t.Run("No result", func(t *testing.T) {
		compiled, err := engine.Compile(&Script{Name: "noop", Content: `x := 1`})
		require.NoError(t, err)

		result, err := engine.Execute(ctx, compiled, "T", nil)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("Allowed module", func(t *testing.T) {
		compiled, err := engine.Compile(&Script{
			Name:    "format",
			Content: `fmt := import("fmt"); result := fmt.sprintf("price= %d", args[0])`,
		})
		require.NoError(t, err)

		result, err := engine.Execute(ctx, compiled, "T", []any{2000000})
		require.NoError(t, err)
		assert.Equal(t, "price= 2000000", result)
	})

	t.Run("Compiled script is reusable", func(t *testing.T) {
		compiled, err := engine.Compile(&Script{Name: "echo", Content: `result := args[0]`})
		require.NoError(t, err)

		first, err := engine.Execute(ctx, compiled, "T", []any{"one"})
		require.NoError(t, err)
		second, err := engine.Execute(ctx, compiled, "T", []any{"two"})
		require.NoError(t, err)
		assert.Equal(t, "one", first)
		assert.Equal(t, "two", second)
	})
}

func TestTengoEngine_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Syntax error", func(t *testing.T) {
		_, err := NewTengoEngine().Compile(&Script{Name: "broken", Content: `result := `})
		requireScriptError(t, err, ErrorTypeCompilation)
	})

	t.Run("Disallowed module", func(t *testing.T) {
		_, err := NewTengoEngine().Compile(&Script{Name: "os", Content: `os := import("os")`})
		requireScriptError(t, err, ErrorTypeCompilation)
	})

	t.Run("Runtime error", func(t *testing.T) {
		engine := NewTengoEngine()
		compiled, err := engine.Compile(&Script{Name: "mismatch", Content: `result := args[0] + []`})
		require.NoError(t, err)

		_, err = engine.Execute(ctx, compiled, "T", []any{1})
		requireScriptError(t, err, ErrorTypeExecution)
	})

	t.Run("Unconvertible argument", func(t *testing.T) {
		engine := NewTengoEngine()
		compiled, err := engine.Compile(&Script{Name: "echo", Content: `result := args`})
		require.NoError(t, err)

		_, err = engine.Execute(ctx, compiled, "T", []any{struct{}{}})
		requireScriptError(t, err, ErrorTypeInput)
	})

	t.Run("Timeout", func(t *testing.T) {
		limits := GetDefaultSecurityLimits()
		limits.MaxExecutionTime = 50 * time.Millisecond
		engine := NewTengoEngineWithLimits(limits)

		compiled, err := engine.Compile(&Script{Name: "spin", Content: `for { }`})
		require.NoError(t, err)

		_, err = engine.Execute(ctx, compiled, "T", nil)
		requireScriptError(t, err, ErrorTypeTimeout)
	})
}

func TestGetDefaultSecurityLimits_IsACopy(t *testing.T) {
	limits := GetDefaultSecurityLimits()
	limits.AllowedPackages[0] = "os"
	assert.Equal(t, "fmt", DefaultSecurityLimits.AllowedPackages[0])
}

func TestScriptHandler_Subscribed(t *testing.T) {
	engine := NewTengoEngine()
	reg := events.NewRegistry()

	sh, err := engine.NewHandler(context.Background(), "squareMeter88", &Script{
		Name:    "discount",
		Content: `result := args[0] - args[0] / 10`,
	})
	require.NoError(t, err)
	assert.Equal(t, "squareMeter88", sh.Topic())
	assert.Nil(t, sh.LastResult())

	reg.Subscribe(sh.Topic(), sh.Handle())

	ok, err := reg.Publish("squareMeter88", 2000000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1800000), sh.LastResult())

	t.Run("Script failure surfaces from Publish", func(t *testing.T) {
		_, err := reg.Publish("squareMeter88", "not a number")
		require.Error(t, err)

		var pubErr *events.PublishError
		assert.ErrorAs(t, err, &pubErr)
		requireScriptError(t, err, ErrorTypeExecution)
		assert.Equal(t, int64(1800000), sh.LastResult(), "failed runs keep the previous result")
	})
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "scripts/double.tengo", []byte(`result := args[0] * 2`), 0644))

	s, err := LoadFile(fs, "scripts/double.tengo")
	require.NoError(t, err)
	assert.Equal(t, "double", s.Name)
	assert.Equal(t, `result := args[0] * 2`, s.Content)

	_, err = LoadFile(fs, "scripts/missing.tengo")
	requireScriptError(t, err, ErrorTypeNotFound)
}
