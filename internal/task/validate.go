package task

import (
	"strings"

	"github.com/taskpulse/taskpulse/internal/clierr"
)

// ValidatePriority checks that a priority is one of high/medium/low.
func ValidatePriority(priority string) error {
	for _, p := range Priorities {
		if p == priority {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidArgument, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  Priorities,
		})
}

// ValidateRecurrence checks that a recurrence kind is in the allowed list.
func ValidateRecurrence(kind Recurrence) error {
	for _, r := range Recurrences {
		if r == kind {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidArgument, "invalid recurrence %q", kind).
		WithDetails(map[string]any{
			"recurring": kind,
			"allowed":   Recurrences,
		})
}

// ValidateProgress checks that progress is within [0,100].
func ValidateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return clierr.Newf(clierr.OutOfRange, "progress must be 0-100, got %d", progress).
			WithDetails(map[string]any{"progress": progress})
	}
	return nil
}

// ValidateMinutes checks that logged minutes are positive.
func ValidateMinutes(minutes int) error {
	if minutes <= 0 {
		return clierr.Newf(clierr.InvalidArgument, "minutes must be positive, got %d", minutes).
			WithDetails(map[string]any{"minutes": minutes})
	}
	return nil
}

// ValidateBlockReason checks that a block reason is non-empty.
func ValidateBlockReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return clierr.New(clierr.InvalidArgument, "blocked tasks require a non-empty reason")
	}
	return nil
}

// ValidateTitle checks that a title is non-empty.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return clierr.New(clierr.InvalidArgument, "title is required")
	}
	return nil
}

// ValidateEstimate checks that an estimate, if set, is non-negative.
func ValidateEstimate(estimate *int) error {
	if estimate != nil && *estimate < 0 {
		return clierr.Newf(clierr.InvalidArgument, "estimate must be >= 0, got %d", *estimate).
			WithDetails(map[string]any{"estimate_minutes": *estimate})
	}
	return nil
}
