package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"taxengine/internal/core"
	"taxengine/internal/rules"
)

const (
	ExitSuccess           = 0
	ExitComputeFailure    = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invalidInvocationf(format string, args ...any) error {
	return &ExitError{Code: ExitInvalidInvocation, Err: fmt.Errorf(format, args...)}
}

func configError(err error) error {
	return &ExitError{Code: ExitConfigError, Err: err}
}

// ExitCode maps an error from a command to the process exit code. Registry
// failures (unsupported year, required state missing) are compute failures;
// anything unclassified is internal.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) && ee != nil && ee.Code != 0 {
		return ee.Code
	}
	if errors.Is(err, rules.ErrUnsupportedYear) || errors.Is(err, rules.ErrStateModuleMissing) {
		return ExitComputeFailure
	}
	return ExitInternalError
}

// readReturn decodes a TaxReturn from path, or from stdin when path is "-".
// Unknown fields and trailing content are rejected so a typo in a key never
// silently drops an amount.
func readReturn(stdin io.Reader, path string) (*core.TaxReturn, error) {
	var (
		data []byte
		err  error
	)
	switch strings.TrimSpace(path) {
	case "":
		return nil, errors.New("return path must not be empty")
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read return: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var tr core.TaxReturn
	if err := dec.Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode return %s: %w", path, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("decode return %s: trailing content", path)
	}
	return &tr, nil
}
