package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantMsg    string
		wantCat    Category
		wantStatus int
	}{
		{
			name:       "config error",
			code:       "T001",
			wantMsg:    "Invalid configuration",
			wantCat:    CategoryConfig,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "bad request",
			code:       "T010",
			wantMsg:    "Bad request",
			wantCat:    CategoryValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "counter not found",
			code:       "T011",
			wantMsg:    "Counter not found",
			wantCat:    CategoryState,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown error code",
			code:       "T999",
			wantMsg:    "Unknown error",
			wantCat:    "",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.HTTPStatus() != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", err.HTTPStatus(), tt.wantStatus)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "flag %q is required", "addr")
	if err.Message != `flag "addr" is required` {
		t.Errorf("Message = %q, want %q", err.Message, `flag "addr" is required`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("T011")
	if got, want := err.Error(), "T011: Counter not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("T002").Wrap(fmt.Errorf("open tracked.json: permission denied"))
	want := "T002: Configuration could not be read: open tracked.json: permission denied"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_Builders(t *testing.T) {
	err := New("T010").
		WithDetailf("query parameter %q must be an integer", "n").
		WithSuggestion("Use ?n=10")

	if err.Detail != `query parameter "n" must be an integer` {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "Use ?n=10" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}

	err.WithDetail("replaced")
	if err.Detail != "replaced" {
		t.Errorf("Detail = %q, want %q", err.Detail, "replaced")
	}
}

func TestError_WrapAndUnwrap(t *testing.T) {
	cause := &testError{msg: "disk full"}
	err := New("T002").Wrap(cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return wrapped error")
	}

	var te *testError
	if !stderrors.As(fmt.Errorf("loading: %w", err), &te) {
		t.Error("errors.As should find the wrapped cause")
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("handler: %w", New("T011").WithDetail("id 7"))

	if !stderrors.Is(err, New("T011")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("T012")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(err, &Error{Message: "Counter not found"}) {
		t.Error("errors.Is should not match an error without a code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "T001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	te := New("T011")
	if FromError(te, "T010") != te {
		t.Error("FromError should return *Error as-is")
	}
	if FromError(fmt.Errorf("ctx: %w", te), "T010") != te {
		t.Error("FromError should find a wrapped *Error")
	}

	stdErr := &testError{msg: "test error"}
	result := FromError(stdErr, "T020")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "T020" {
		t.Errorf("Code = %q, want T020", result.Code)
	}
}

func TestCode(t *testing.T) {
	if got := Code(fmt.Errorf("x: %w", New("T012"))); got != "T012" {
		t.Errorf("Code() = %q, want T012", got)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code() = %q, want empty", got)
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("T001").
		WithDetail("dispatch_queue_size must be positive").
		WithSuggestion("Set dispatch_queue_size to at least 1").
		Wrap(stderrors.New("got -1"))

	formatted := err.Format()

	for _, want := range []string{
		"ERROR T001: Invalid configuration",
		"dispatch_queue_size must be positive",
		"Cause: got -1",
		"Hint: Set dispatch_queue_size",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("T011").WithDetail("id 3")
	if got, want := err.FormatCompact(), "T011: Counter not found (id 3)"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("T011").WithDetail("id 3").Wrap(stderrors.New("internal"))

	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("Marshal: %v", mErr)
	}

	var got map[string]any
	if uErr := json.Unmarshal(data, &got); uErr != nil {
		t.Fatalf("Unmarshal: %v", uErr)
	}
	if got["code"] != "T011" || got["category"] != "state" || got["detail"] != "id 3" {
		t.Errorf("unexpected JSON: %s", data)
	}
	if strings.Contains(string(data), "internal") {
		t.Errorf("JSON should not expose the wrapped cause: %s", data)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("boom"))
	if buf.String() != "ERROR: boom\n" {
		t.Errorf("Fprint plain = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, New("T020"))
	if !strings.Contains(buf.String(), "ERROR T020") {
		t.Errorf("Fprint coded = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, fmt.Errorf("serve: %w", New("T020").WithSuggestion("Pick another port")))
	if !strings.Contains(buf.String(), "ERROR T020") || !strings.Contains(buf.String(), "Hint: Pick another port") {
		t.Errorf("Fprint wrapped coded error should be formatted, got %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	want := []string{"T001", "T002", "T010", "T011", "T012", "T020", "T021"}
	if len(codes) != len(want) {
		t.Fatalf("GetAllCodes() = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("T012")
	if !ok {
		t.Error("T012 should exist")
	}
	if template.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", template.Status, http.StatusServiceUnavailable)
	}

	if _, ok := GetTemplate("T999"); ok {
		t.Error("T999 should not exist")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
