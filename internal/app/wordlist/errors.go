package wordlist

import "fmt"

// Pipeline stages, used to attribute errors.
const (
	StageLoad      = "load"
	StageLemmatize = "lemmatize"
	StageScore     = "score"
	StageWrite     = "write"
	StagePublish   = "publish"
)

// StageError attributes a failure to a language and pipeline stage.
type StageError struct {
	Language string
	Stage    string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("language %s: %s: %v", e.Language, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(language, stage string, err error) *StageError {
	return &StageError{Language: language, Stage: stage, Err: err}
}
