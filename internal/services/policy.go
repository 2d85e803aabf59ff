package services

import (
	"context"
	"log/slog"
)

// Tier decides what a failed remote call turns into.
type Tier int

const (
	// Surface returns the error to the caller.
	Surface Tier = iota
	// SilenceToEmpty logs the error and returns an empty collection.
	SilenceToEmpty
	// SilenceToDefault logs the error and returns the zero value.
	SilenceToDefault
)

func (t Tier) String() string {
	switch t {
	case Surface:
		return "surface"
	case SilenceToEmpty:
		return "silence_to_empty"
	case SilenceToDefault:
		return "silence_to_default"
	}
	return "unknown"
}

type OperationKind int

const (
	Mutation OperationKind = iota
	Read
	Aggregate
)

// ErrorPolicy maps each kind of operation to a Tier. Kinds missing from the
// map surface their errors.
type ErrorPolicy map[OperationKind]Tier

func DefaultErrorPolicy() ErrorPolicy {
	return ErrorPolicy{
		Mutation:  Surface,
		Read:      SilenceToEmpty,
		Aggregate: SilenceToDefault,
	}
}

func (p ErrorPolicy) TierFor(kind OperationKind) Tier {
	if t, ok := p[kind]; ok {
		return t
	}
	return Surface
}

// handleMutation returns err unless the policy silences mutations.
func handleMutation(ctx context.Context, logger *slog.Logger, p ErrorPolicy, op string, err error) error {
	if err == nil {
		return nil
	}
	if p.TierFor(Mutation) == Surface {
		return err
	}
	logger.ErrorContext(ctx, "mutation failed", "op", op, "error", err)
	return nil
}

// handleList applies the Read tier to a list result.
func handleList[T any](ctx context.Context, logger *slog.Logger, p ErrorPolicy, op string, items []T, err error) ([]T, error) {
	if err == nil {
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
	if p.TierFor(Read) == Surface {
		return nil, err
	}
	logger.ErrorContext(ctx, "read failed, returning empty result", "op", op, "error", err)
	return []T{}, nil
}

// handleValue applies the Aggregate tier to a scalar result.
func handleValue[T any](ctx context.Context, logger *slog.Logger, p ErrorPolicy, op string, v T, err error) (T, error) {
	if err == nil {
		return v, nil
	}
	var zero T
	if p.TierFor(Aggregate) == Surface {
		return zero, err
	}
	logger.ErrorContext(ctx, "aggregate failed, returning default", "op", op, "error", err)
	return zero, nil
}
