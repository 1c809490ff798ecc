package report

import "fmt"

// Stage is a step of report generation.
type Stage int

const (
	StageCreated Stage = iota
	StageContentMerged
	StageColumnsRemapped
	StageWorkbookComposed
	StageSaved
)

func (s Stage) String() string {
	switch s {
	case StageCreated:
		return "Created"
	case StageContentMerged:
		return "ContentMerged"
	case StageColumnsRemapped:
		return "ColumnsRemapped"
	case StageWorkbookComposed:
		return "WorkbookComposed"
	case StageSaved:
		return "Saved"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageError is a failure while moving into Stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("report stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// tracker walks the stage sequence and wraps failures with the stage being entered.
type tracker struct {
	current Stage
}

func (t *tracker) advance(next Stage, err error) error {
	if err != nil {
		return &StageError{Stage: next, Err: err}
	}
	t.current = next
	return nil
}
