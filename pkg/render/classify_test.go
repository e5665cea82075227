package render

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/matzehuels/umlpad/pkg/errors"
)

const sampleSource = "@startuml\nAlice -> Bob: Hello\n@enduml"

func TestClassifySuccess(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	engine := EngineFunc(func(_ context.Context, source string, format Format) (*Outcome, error) {
		if source != sampleSource {
			t.Errorf("source = %q", source)
		}
		return &Outcome{ExitCode: 0, Stdout: svg}, nil
	})

	out, err := engine.Invoke(context.Background(), sampleSource, FormatSVG)
	result := Classify(FormatSVG, out, err)

	resp := result.Response()
	if !resp.OK {
		t.Fatalf("Response().OK = false, error = %+v", resp.Error)
	}
	if resp.Format != FormatSVG {
		t.Errorf("Format = %q, want svg", resp.Format)
	}
	if !strings.HasPrefix(resp.Data, "data:image/svg+xml;base64,") || len(resp.Data) <= len("data:image/svg+xml;base64,") {
		t.Errorf("Data = %q, want non-empty svg data URI", resp.Data)
	}
}

func TestClassifyFailureConditions(t *testing.T) {
	tests := []struct {
		name string
		out  *Outcome
	}{
		{"non-zero exit with output", &Outcome{ExitCode: 200, Stdout: []byte("<svg/>"), Stderr: "ERROR"}},
		{"clean exit without output", &Outcome{ExitCode: 0}},
		{"nil outcome", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(FormatPNG, tt.out, nil)
			if r.OK() {
				t.Fatal("OK() = true, want failure")
			}
			if r.Failure.Kind != FailureDiagram {
				t.Errorf("Kind = %q, want %q", r.Failure.Kind, FailureDiagram)
			}
			if r.Format != FormatPNG {
				t.Errorf("Format = %q, want png", r.Format)
			}
		})
	}
}

func TestExtractLine(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   int
	}{
		{"colon", "Error at line: 7", 7},
		{"equals", "syntax problem line=12", 12},
		{"case insensitive", "LINE : 3 bad arrow", 3},
		{"first match wins", "line: 4\nline: 9", 4},
		{"plantuml error block", "ERROR\n5\nSyntax Error?\n", 5},
		{"no token", "Syntax Error?", 0},
		{"word without number", "the line is wrong", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractLine(tt.stderr); got != tt.want {
				t.Errorf("ExtractLine(%q) = %d, want %d", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "first line",
			stderr: "Syntax Error?\nSome diagram description contains errors",
			want:   "Syntax Error?",
		},
		{
			name: "skips runtime and stack frames",
			stderr: "Exception in thread \"main\" java.lang.IllegalStateException\n" +
				"\tat net.sourceforge.plantuml.Run.main(Run.java:42)\n" +
				"\t... 3 more\n" +
				"  Unknown diagram type  \n",
			want: "Unknown diagram type",
		},
		{
			name:   "blank lines",
			stderr: "\n\n   \nbad arrow\n",
			want:   "bad arrow",
		},
		{
			name:   "only noise",
			stderr: "\tat java.base/java.lang.Thread.run(Thread.java:833)\n",
			want:   MsgRenderFailed,
		},
		{
			name:   "empty",
			stderr: "",
			want:   MsgRenderFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortMessage(tt.stderr); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyKeepsFullDetails(t *testing.T) {
	stderr := "\tat com.example.Frame(Frame.java:1)\nError at line: 7\n"
	r := Classify(FormatSVG, &Outcome{ExitCode: 1, Stderr: stderr}, nil)

	if r.Failure.Details != stderr {
		t.Errorf("Details = %q, want unfiltered stderr", r.Failure.Details)
	}
	if r.Failure.Line != 7 {
		t.Errorf("Line = %d, want 7", r.Failure.Line)
	}
	if strings.Contains(r.Failure.ShortMessage, "Frame.java") {
		t.Errorf("ShortMessage = %q, stack frame chosen", r.Failure.ShortMessage)
	}
	if r.Failure.ShortMessage != "Error at line: 7" {
		t.Errorf("ShortMessage = %q, want %q", r.Failure.ShortMessage, "Error at line: 7")
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  FailureKind
		wantShort string
	}{
		{
			name:      "tool missing",
			err:       errors.New(errors.ErrCodeToolNotFound, "PlantUML JAR not found at: /x.jar"),
			wantKind:  FailureMissingDependency,
			wantShort: MsgToolNotFound,
		},
		{
			name:      "runtime missing",
			err:       errors.New(errors.ErrCodeRuntimeNotFound, "JRE not found at: /jre/bin/java"),
			wantKind:  FailureMissingDependency,
			wantShort: MsgRuntimeNotFound,
		},
		{
			name:      "timeout",
			err:       errors.New(errors.ErrCodeTimeout, "renderer did not exit within 30s"),
			wantKind:  FailureTimeout,
			wantShort: MsgTimeout,
		},
		{
			name:      "spawn failure",
			err:       errors.Wrap(errors.ErrCodeSpawnFailed, stderrors.New("permission denied"), "start renderer"),
			wantKind:  FailureProcess,
			wantShort: "start renderer: permission denied",
		},
		{
			name:      "plain error",
			err:       stderrors.New("exec format error"),
			wantKind:  FailureProcess,
			wantShort: "exec format error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A spawn-level error wins over whatever outcome accompanies it.
			r := Classify(FormatSVG, &Outcome{ExitCode: 0, Stdout: []byte("x")}, tt.err)
			if r.OK() {
				t.Fatal("OK() = true, want failure")
			}
			f := r.Failure
			if f.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", f.Kind, tt.wantKind)
			}
			if f.ShortMessage != tt.wantShort {
				t.Errorf("ShortMessage = %q, want %q", f.ShortMessage, tt.wantShort)
			}
			if f.Line != 0 {
				t.Errorf("Line = %d, want 0", f.Line)
			}
			if f.Kind == FailureProcess && f.Details != f.ShortMessage {
				t.Errorf("Details = %q, want raw message %q", f.Details, f.ShortMessage)
			}
		})
	}
}
