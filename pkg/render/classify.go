package render

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/umlpad/pkg/errors"
)

// Fixed short messages.
const (
	MsgToolNotFound    = "PlantUML not found"
	MsgRuntimeNotFound = "Java runtime not found"
	MsgTimeout         = "Rendering timed out"
	MsgRenderFailed    = "Rendering failed"
)

// runtimeName marks diagnostic lines emitted by the Java runtime rather than
// by the diagram tool.
const runtimeName = "java"

var (
	// lineTokenRe matches "line: 7", "Line=12", "line : 3".
	lineTokenRe = regexp.MustCompile(`(?i)line\s*[:=]\s*(\d+)`)

	// errorBlockRe matches PlantUML's pipe-mode error block, where the
	// offending line number follows a bare ERROR line.
	errorBlockRe = regexp.MustCompile(`(?m)^\s*ERROR\s*\r?\n\s*(\d+)\s*$`)
)

// Classify interprets one engine run. err is the error returned by
// [Engine.Invoke]; when it is non-nil out is ignored.
func Classify(format Format, out *Outcome, err error) Result {
	if err != nil {
		return Failed(format, classifyError(err))
	}
	if out != nil && out.ExitCode == 0 && len(out.Stdout) > 0 {
		return Succeeded(format, out.Stdout)
	}

	var stderr string
	if out != nil {
		stderr = out.Stderr
	}
	return Failed(format, Failure{
		Kind:         FailureDiagram,
		Line:         ExtractLine(stderr),
		ShortMessage: ShortMessage(stderr),
		Details:      stderr,
	})
}

func classifyError(err error) Failure {
	details := errors.UserMessage(err)
	switch errors.GetCode(err) {
	case errors.ErrCodeToolNotFound:
		return Failure{Kind: FailureMissingDependency, ShortMessage: MsgToolNotFound, Details: details}
	case errors.ErrCodeRuntimeNotFound:
		return Failure{Kind: FailureMissingDependency, ShortMessage: MsgRuntimeNotFound, Details: details}
	case errors.ErrCodeTimeout:
		return Failure{Kind: FailureTimeout, ShortMessage: MsgTimeout, Details: details}
	default:
		return Failure{Kind: FailureProcess, ShortMessage: details, Details: details}
	}
}

// ExtractLine returns the source line number reported in diagnostic text,
// or 0 when none is found.
func ExtractLine(stderr string) int {
	if m := lineTokenRe.FindStringSubmatch(stderr); m != nil {
		return atoi(m[1])
	}
	if m := errorBlockRe.FindStringSubmatch(stderr); m != nil {
		return atoi(m[1])
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ShortMessage picks the first meaningful line of diagnostic text, skipping
// runtime noise and stack frames.
func ShortMessage(stderr string) string {
	sc := bufio.NewScanner(strings.NewReader(stderr))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || isNoise(line) {
			continue
		}
		return line
	}
	return MsgRenderFailed
}

// isNoise reports whether a trimmed diagnostic line comes from the runtime
// or is a stack frame.
func isNoise(line string) bool {
	if strings.Contains(strings.ToLower(line), runtimeName) {
		return true
	}
	return strings.HasPrefix(line, "at ") || strings.HasPrefix(line, "...")
}

// String implements fmt.Stringer for log output.
func (f Failure) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("line %d: %s", f.Line, f.ShortMessage)
	}
	return f.ShortMessage
}
