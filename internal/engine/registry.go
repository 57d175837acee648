// File: internal/engine/registry.go
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/config"
)

// Field is one classified, bound control ready to fill.
type Field struct {
	Candidate schemas.FieldCandidate
	Meta      schemas.FieldMetadata
	Kind      schemas.FieldKind
	Binding   schemas.ConfigBinding
}

// Executor fills one field kind. Implementations never return an error
// for a value that merely failed to land; that is a failed FillOutcome.
// Errors are reserved for invalid input and infrastructure faults.
type Executor interface {
	Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error)
}

// Registry routes fields to their kind's executor.
type Registry struct {
	executors map[schemas.FieldKind]Executor
	logger    *zap.Logger
}

func NewRegistry(page browser.Page, cfg config.EngineConfig, logger *zap.Logger) *Registry {
	logger = logger.Named("engine")
	// Number inputs take the text ladder: the profile value is written
	// as given and a read-back mismatch demotes the strategy. Clamping
	// to min/max/step belongs to range sliders only.
	text := &TextExecutor{page: page, logger: logger}
	r := &Registry{logger: logger, executors: map[schemas.FieldKind]Executor{
		schemas.KindText:         text,
		schemas.KindEmail:        text,
		schemas.KindTel:          text,
		schemas.KindURL:          text,
		schemas.KindPassword:     text,
		schemas.KindTextarea:     text,
		schemas.KindTime:         text,
		schemas.KindNumber:       text,
		schemas.KindRange:        &RangeExecutor{page: page, logger: logger},
		schemas.KindSelect:       &SelectExecutor{page: page, logger: logger},
		schemas.KindRadio:        &RadioExecutor{page: page, logger: logger},
		schemas.KindCheckbox:     &CheckboxExecutor{page: page, logger: logger},
		schemas.KindDate:         &DateExecutor{page: page, cfg: cfg, logger: logger},
		schemas.KindFile:         &FileExecutor{page: page, cfg: cfg, logger: logger},
		schemas.KindAutocomplete: &AutocompleteExecutor{page: page, cfg: cfg, logger: logger},
		schemas.KindRichText:     &RichTextExecutor{page: page, logger: logger},
	}}
	return r
}

// Fill dispatches the field to its executor. Unknown or unhandled kinds
// report a skip via an unsuccessful outcome.
func (r *Registry) Fill(ctx context.Context, f Field) (schemas.FillOutcome, error) {
	exec, ok := r.executors[f.Kind]
	if !ok {
		r.logger.Debug("no executor for kind", zap.String("kind", string(f.Kind)))
		return schemas.FillOutcome{}, nil
	}
	value := f.Binding.Value
	if value == "" && len(f.Binding.Values) > 0 {
		value = f.Binding.Values[0]
	}
	return exec.Fill(ctx, f, value)
}
