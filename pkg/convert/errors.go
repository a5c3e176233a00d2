package convert

import "errors"

// ErrNoFile is returned when Drive accepted the upload but reported no file id
var ErrNoFile = errors.New("no file")

// Stage names the step of the conversion that failed
type Stage string

const (
	StageUpload   Stage = "upload request"
	StageCreate   Stage = "drive files.create"
	StageExport   Stage = "drive files.export"
	StageDownload Stage = "export download"
	StageDecode   Stage = "export decode"
	StageService  Stage = "Google Drive API failed"
)

type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf reports the failed stage of err, or "" when err is not a conversion error
func StageOf(err error) Stage {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Stage
	}
	return ""
}
