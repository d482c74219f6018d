// Package validation decides which raw sources are genuinely about the
// candidate (or the target role) before any distillation work is spent on
// them. It runs a cheap lexical heuristic first and only escalates to an LLM
// judge for sources that survive it.
package validation

import "fmt"

// ConfigError indicates the gate was invoked with inputs it cannot work
// without, such as a missing candidate name. It aborts the whole run rather
// than silently discarding every source.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("validation config error: %s", e.Message)
}
