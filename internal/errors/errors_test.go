package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"apply error", CodeMissingNode, "No live node at patch path", CategoryApply},
		{"protocol error", CodeDecodeFailed, "Payload could not be decoded", CategoryProtocol},
		{"config error", CodeConfigParse, "Configuration file could not be parsed", CategoryConfig},
		{"store error", CodeUnknownStoreKind, "Unknown store kind", CategoryStore},
		{"unknown error code", "E999", "Unknown error", ""},
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
		})
	}
}

func TestCodesAreRegistered(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		tmpl, _ := GetTemplate(code)
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s has an incomplete template", code)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeAnchorMismatch).WithPatch(2, stringer("InsertBefore /0 before=1"))
	want := `E103: Insertion anchor does not match (patch 2: InsertBefore /0 before=1)`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := New(CodeStoreWrite).Wrap(fmt.Errorf("disk full"))
	if wrapped.Error() != "E501: Frame could not be archived: disk full" {
		t.Errorf("Error() = %q", wrapped.Error())
	}

	if got := Newf(CategoryCLI, "bad flag %q", "--x").Error(); got != `bad flag "--x"` {
		t.Errorf("Newf Error() = %q", got)
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestWrapAndIs(t *testing.T) {
	inner := fmt.Errorf("boom")
	outer := New(CodeStoreRead).Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	chained := fmt.Errorf("archive: %w", outer)
	if !Is(chained, CodeStoreRead) {
		t.Error("Is should find the code through fmt wrapping")
	}
	if Is(chained, CodeStoreWrite) {
		t.Error("Is should not match a different code")
	}
	if Is(nil, CodeStoreRead) {
		t.Error("Is(nil) should be false")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeHTMLParse) != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New(CodeHTMLParse)
	if FromError(e, CodeInputUnreadable) != e {
		t.Error("FromError should return *Error as-is")
	}

	std := fmt.Errorf("test error")
	if FromError(std, CodeHTMLParse).Wrapped != std {
		t.Error("standard error should be wrapped")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  *Location
		want string
	}{
		{nil, ""},
		{&Location{File: "vdiff.json", Line: 10, Column: 5}, "vdiff.json:10:5"},
		{&Location{File: "vdiff.json", Line: 10}, "vdiff.json:10"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "vdiff.json")
	content := "{\n  \"server\": {\n    \"port\": \"eighty\"\n  }\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New(CodeConfigParse).
		WithLocation(tmpFile, 3, 13).
		WithSuggestion("port must be a number").
		Wrap(fmt.Errorf("cannot unmarshal string"))

	formatted := err.Format()
	for _, want := range []string{
		"ERROR E301: Configuration file could not be parsed",
		tmpFile + ":3:13",
		`"port": "eighty"`,
		"^",
		"Cause: cannot unmarshal string",
		"Hint: port must be a number",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeConfigParse)
	err.Location = &Location{File: "vdiff.json", Line: 10, Column: 5}

	want := "vdiff.json:10:5: E301: Configuration file could not be parsed"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeMissingNode).WithPatch(0, stringer("RemoveNode /4")).Wrap(fmt.Errorf("index 4 of 2"))

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatal(jerr)
	}
	var got map[string]string
	if jerr := json.Unmarshal(data, &got); jerr != nil {
		t.Fatal(jerr)
	}
	if got["code"] != "E101" || got["category"] != "apply" || got["patch"] != "patch 0: RemoveNode /4" || got["cause"] != "index 4 of 2" {
		t.Errorf("MarshalJSON = %s", data)
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryCLI,
		Message:  "Custom test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\x1b[31") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\x1b[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
