package logger

// Nop discards every log call. Used by tests and as a safe default.
type Nop struct{}

func (Nop) Debug(module, message string, details map[string]interface{}) {}
func (Nop) Info(module, message string, details map[string]interface{})  {}
func (Nop) Warn(module, message string, details map[string]interface{})  {}
func (Nop) Error(module, message string, details map[string]interface{}) {}
func (Nop) Sync() error                                                  { return nil }
