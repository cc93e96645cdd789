package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("O_o *wow* [link]", MarkdownV1)
	if err != nil {
		t.Fatal(err)
	}
	want := `O\_o \*wow\* \[link]`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("a.b-c!", MarkdownV2)
	if err != nil {
		t.Fatal(err)
	}
	want := `a\.b\-c\!`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnsupported(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("expected error for unknown version")
	}
}
