package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeToolNotFound, "JAR not found at: %s", "/opt/plantuml.jar")

	if err.Code != ErrCodeToolNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeToolNotFound)
	}

	if err.Message != "JAR not found at: /opt/plantuml.jar" {
		t.Errorf("Message = %v", err.Message)
	}

	expected := "TOOL_NOT_FOUND: JAR not found at: /opt/plantuml.jar"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeSpawnFailed, cause, "start renderer")

	if err.Code != ErrCodeSpawnFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSpawnFailed)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeTimeout, "slow"), ErrCodeTimeout, true},
		{"non-matching code", New(ErrCodeTimeout, "slow"), ErrCodeFileIO, false},
		{"wrapped error", Wrap(ErrCodeFileIO, New(ErrCodeInvalidPath, "inner"), "outer"), ErrCodeFileIO, true},
		{"non-Error type", errors.New("plain error"), ErrCodeTimeout, false},
		{"nil error", nil, ErrCodeTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeRuntimeNotFound, "test"), ErrCodeRuntimeNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"Error with cause", Wrap(ErrCodeFileIO, errors.New("disk full"), "write out.svg"), "write out.svg: disk full"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"empty", "", false},
		{"diagram", "@startuml\nA -> B\n@enduml", false},
		{"null byte", "@startuml\x00", true},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "diagram.puml", false},
		{"absolute", "/tmp/out/diagram.svg", false},
		{"parent dir", "../shared/diagram.png", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "diagram\n.puml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
