package practicesession

import (
	"errors"
	"fmt"
)

// Mode selects which table a session draws from.
type Mode string

const (
	ModeObjective  Mode = "objective"  // question table
	ModeSubjective Mode = "subjective" // exam_question + exam_items
)

const (
	DefaultSampleSize  = 20
	DefaultRepeatCount = 5
)

var ErrInvalidConfig = errors.New("invalid session config")

// Config is fixed for the lifetime of a session.
//
// Exactly one of SubjectID (single-subject mode) or SubjectIDs
// (multi-subject mode) is set. SampleSize and RepeatCount only apply to
// multi-subject mode.
type Config struct {
	SubjectID   int64
	SubjectIDs  []int64
	Mode        Mode
	SampleSize  int  // per subject; capped at what the subject has
	RepeatCount int  // times each sample is appended, at least 1
	Collection  bool // collected questions only; single-subject objective
}

// DefaultConfig returns an objective config with the default sampling.
// Callers still pick the subjects.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeObjective,
		SampleSize:  DefaultSampleSize,
		RepeatCount: DefaultRepeatCount,
	}
}

// IsMultiSubject reports whether the deck is sampled across subjects.
func (c Config) IsMultiSubject() bool {
	return len(c.SubjectIDs) > 0
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeObjective, ModeSubjective:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}

	if c.SubjectID != 0 && len(c.SubjectIDs) > 0 {
		return fmt.Errorf("%w: set either subject_id or subject_ids, not both", ErrInvalidConfig)
	}
	if c.SubjectID == 0 && len(c.SubjectIDs) == 0 {
		return fmt.Errorf("%w: no subject selected", ErrInvalidConfig)
	}

	if c.Collection {
		if c.Mode != ModeObjective {
			return fmt.Errorf("%w: collection mode is objective only", ErrInvalidConfig)
		}
		if c.IsMultiSubject() {
			return fmt.Errorf("%w: collection mode takes a single subject", ErrInvalidConfig)
		}
	}

	if c.IsMultiSubject() {
		if c.SampleSize < 0 {
			return fmt.Errorf("%w: sample size must not be negative", ErrInvalidConfig)
		}
		if c.RepeatCount < 1 {
			return fmt.Errorf("%w: repeat count must be at least 1", ErrInvalidConfig)
		}
	}
	return nil
}
