package spatialindex

import "github.com/pkg/errors"

// ErrInvalidArgument is returned when an operation is given a nil entity, or
// an entity without a position where one is required. No state is modified
// when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

const packageName = "spatialindex: "

func invalidArg(text string) error {
	return errors.Wrap(ErrInvalidArgument, packageName+text)
}

func textErr(text string) error {
	return errors.New(packageName + text)
}

func fmtErr(format string, a ...interface{}) error {
	return errors.Errorf(packageName+format, a...)
}

func wrapErr(err error, text string) error {
	return errors.Wrap(err, packageName+text)
}
