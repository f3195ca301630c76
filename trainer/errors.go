package trainer

import (
	"errors"
	"fmt"
)

// ConfigError reports a hyperparameter that cannot be trained with. It is
// raised at construction time, never at dispatch time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// ErrBatchSourceExhausted is wrapped into the error returned when a batch
// source yields fewer batches than the configured per-epoch count.
var ErrBatchSourceExhausted = errors.New("batch source exhausted before per-epoch count")
