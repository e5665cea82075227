package render

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/umlpad/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{" png ", FormatPNG, false},
		{"", DefaultFormat, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	if FormatSVG.MIMEType() != "image/svg+xml" || FormatPNG.MIMEType() != "image/png" {
		t.Error("unexpected MIME types")
	}
	if FormatPNG.Extension() != ".png" {
		t.Errorf("Extension() = %q", FormatPNG.Extension())
	}
	if FormatSVG.Toggle() != FormatPNG || FormatPNG.Toggle() != FormatSVG {
		t.Error("Toggle() should swap formats")
	}
	if Format("gif").Valid() {
		t.Error("gif should not be valid")
	}
}

func TestFormatFromMIME(t *testing.T) {
	for _, f := range Formats {
		if got, ok := FormatFromMIME(f.MIMEType()); !ok || got != f {
			t.Errorf("FormatFromMIME(%q) = %q, %v", f.MIMEType(), got, ok)
		}
	}
	if got, ok := FormatFromMIME(" Image/PNG "); !ok || got != FormatPNG {
		t.Errorf("case-insensitive lookup = %q, %v", got, ok)
	}
	if _, ok := FormatFromMIME("image/gif"); ok {
		t.Error("image/gif should not map to a format")
	}
}

func TestResultStates(t *testing.T) {
	var empty Result
	if !empty.Empty() || empty.OK() {
		t.Error("zero Result should be empty and not OK")
	}
	if empty.DataURI() != "" {
		t.Error("empty result should have no data URI")
	}

	ok := Succeeded(FormatPNG, []byte{0x89, 'P', 'N', 'G'})
	if !ok.OK() || ok.Empty() {
		t.Error("success should be OK")
	}

	failed := Failed(FormatSVG, Failure{Kind: FailureDiagram, ShortMessage: "bad"})
	if failed.OK() || failed.Empty() {
		t.Error("failure should be neither OK nor empty")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	uri := Succeeded(FormatPNG, img).DataURI()

	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("DataURI() = %q", uri)
	}
	got, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != string(img) {
		t.Errorf("decoded %v, want %v", got, img)
	}
}

func TestResponseJSON(t *testing.T) {
	r := Failed(FormatSVG, Failure{Kind: FailureDiagram, Line: 3, ShortMessage: "Syntax Error?", Details: "ERROR\n3\nSyntax Error?"})
	data, err := json.Marshal(r.Response())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["ok"] != false {
		t.Errorf("ok = %v", decoded["ok"])
	}
	errObj, ok := decoded["error"].(map[string]any)
	if !ok {
		t.Fatalf("error = %v", decoded["error"])
	}
	if errObj["line"] != float64(3) || errObj["shortMessage"] != "Syntax Error?" {
		t.Errorf("error = %v", errObj)
	}
	if _, has := decoded["data"]; has {
		t.Error("failure response should omit data")
	}
}

func TestFailureString(t *testing.T) {
	if got := (Failure{Line: 4, ShortMessage: "bad"}).String(); got != "line 4: bad" {
		t.Errorf("String() = %q", got)
	}
	if got := (Failure{ShortMessage: "bad"}).String(); got != "bad" {
		t.Errorf("String() = %q", got)
	}
}
