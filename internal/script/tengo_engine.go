package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Variables every script can read. They are declared before compilation so
// scripts may reference them freely.
const (
	varArgs   = "args"
	varTopic  = "topic"
	varResult = "result"
)

// TengoEngine compiles and runs Tengo scripts under SecurityLimits.
type TengoEngine struct {
	securityLimits SecurityLimits
}

// CompiledScript is a script ready to run any number of times.
type CompiledScript struct {
	Script   *Script
	compiled *tengo.Compiled
}

// NewTengoEngine creates a new Tengo engine with default security limits
func NewTengoEngine() *TengoEngine {
	return NewTengoEngineWithLimits(GetDefaultSecurityLimits())
}

// NewTengoEngineWithLimits creates a Tengo engine with the given limits.
func NewTengoEngineWithLimits(limits SecurityLimits) *TengoEngine {
	return &TengoEngine{securityLimits: limits}
}

// Limits returns the engine's security limits.
func (e *TengoEngine) Limits() SecurityLimits {
	return e.securityLimits
}

// Compile prepares a script for execution
func (e *TengoEngine) Compile(script *Script) (*CompiledScript, error) {
	startTime := time.Now()

	tengoScript := tengo.NewScript([]byte(script.Content))
	tengoScript.SetImports(e.buildModuleMap())

	for name, placeholder := range map[string]interface{}{
		varArgs:  []interface{}{},
		varTopic: "",
	} {
		if err := tengoScript.Add(name, placeholder); err != nil {
			return nil, NewScriptError(ErrorTypeCompilation, script.Name, "failed to declare "+name, err)
		}
	}

	compiled, err := tengoScript.Compile()
	if err != nil {
		return nil, NewScriptError(ErrorTypeCompilation, script.Name, "failed to compile Tengo script", err)
	}

	slog.Debug("Tengo script compiled successfully",
		"script", script.Name,
		"compilation_time", time.Since(startTime),
	)

	return &CompiledScript{
		Script:   script,
		compiled: compiled,
	}, nil
}

// Execute runs a compiled script with topic and args bound, and returns the
// value of its "result" variable (nil when unset).
func (e *TengoEngine) Execute(ctx context.Context, cs *CompiledScript, topic string, args []any) (interface{}, error) {
	run := cs.compiled.Clone()

	if err := run.Set(varTopic, topic); err != nil {
		return nil, NewScriptError(ErrorTypeInput, cs.Script.Name, "failed to set topic", err)
	}
	values := make([]interface{}, len(args))
	for i, arg := range args {
		values[i] = normalize(arg)
	}
	if err := run.Set(varArgs, values); err != nil {
		return nil, NewScriptError(ErrorTypeInput, cs.Script.Name, "failed to set args", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.securityLimits.MaxExecutionTime)
	defer cancel()

	startTime := time.Now()
	if err := run.RunContext(execCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, NewScriptError(ErrorTypeTimeout, cs.Script.Name, "script execution timed out", err)
		}
		return nil, NewScriptError(ErrorTypeExecution, cs.Script.Name, "script execution failed", err)
	}

	slog.Debug("Tengo script executed",
		"script", cs.Script.Name,
		"topic", topic,
		"execution_time", time.Since(startTime),
	)

	return run.Get(varResult).Value(), nil
}

// buildModuleMap creates the allowed modules map based on security limits
func (e *TengoEngine) buildModuleMap() *tengo.ModuleMap {
	modules := tengo.NewModuleMap()
	for _, pkg := range e.securityLimits.AllowedPackages {
		if module, exists := stdlib.BuiltinModules[pkg]; exists {
			modules.AddBuiltinModule(pkg, module)
		}
	}
	return modules
}

// normalize maps Go values tengo cannot convert onto ones it can.
func normalize(v any) interface{} {
	switch val := v.(type) {
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}
