package plaintext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "Pasta", want: "Pasta"},
		{name: "bold", input: "<b>Hi</b>", want: "Hi"},
		{name: "nested", input: "<p>Hello <em>world</em></p>", want: "Hello world"},
		{name: "script body dropped", input: "<script>x</script>Pasta", want: "Pasta"},
		{name: "style body dropped", input: "<style>p{color:red}</style>Soup", want: "Soup"},
		{name: "entities decoded", input: "Fish &amp; Chips", want: "Fish & Chips"},
		{name: "encoded markup", input: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "unclosed", input: "<div><b>unclosed", want: "unclosed"},
		{name: "attributes", input: `<a href="javascript:alert(1)" onclick="x()">Link</a>`, want: "Link"},
		{name: "quotes kept", input: `Grandma's "best" stew`, want: `Grandma's "best" stew`},
		{name: "bytes", input: []byte("<i>Soup</i>"), want: "Soup"},
		{name: "number", input: 42, want: "42"},
		{name: "title body kept", input: "<title>Soup</title> of the day", want: "Soup of the day"},
		{name: "noscript body kept", input: "<noscript>Tomato</noscript> soup", want: "Tomato soup"},
		{name: "deeply escaped", input: deeplyEscaped("&lt;b&gt;x", 18), want: "x"},
		{name: "comparison kept without markup", input: "a < b and c > d", want: "a < b and c > d"},
		{name: "trimmed", input: "  <b> Salad </b>  ", want: "Salad"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeRemovesTags(t *testing.T) {
	inputs := []string{
		"<b>Hi</b>",
		"<p>one <span>two</span> three</p>",
		"<ul><li>eggs</li> <li>flour</li></ul>",
		`<img src="x" onerror="alert(1)">after`,
		"<script>document.cookie</script>",
		"<b>1 < 2</b>",
		"<b>Hi</b> a &lt; b",
		"<iframe><b>framed</b></iframe>",
	}
	for _, input := range inputs {
		got := Normalize(input)
		if strings.ContainsAny(got, "<>") {
			t.Fatalf("Normalize(%q) = %q still contains markup", input, got)
		}
	}
}

func TestNormalizePreservesTextOrder(t *testing.T) {
	got := Normalize("<p>one <span>two</span> three</p>")
	if got != "one two three" {
		t.Fatalf("expected text order preserved, got %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Pasta",
		"<b>Hi</b>",
		"&amp;lt;b&amp;gt;deep&amp;lt;/b&amp;gt;",
		"a < b and c > d",
		"<<b>>x",
		"<div><p>unbalanced</div></p>",
		"Fish &amp; Chips",
		"<script>x</script>Pasta",
		"line one\nline two",
		"<b>1 < 2</b>",
		"&<>amp;",
		deeplyEscaped("&lt;b&gt;x", 18),
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestText(t *testing.T) {
	text := NewText("line one\r\n<i>line two</i>")
	if diff := cmp.Diff("line one\nline two", text.String()); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}

	var scanned Text
	if err := scanned.Scan([]byte("<b>stored</b> before")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned.String() != "stored before" {
		t.Fatalf("expected scan to normalize, got %q", scanned)
	}

	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !scanned.IsZero() {
		t.Fatalf("expected NULL to scan as empty, got %q", scanned)
	}

	if err := scanned.Scan(12); err == nil {
		t.Fatalf("expected error for unsupported source")
	}

	value, err := Text("<p></p>").Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != nil {
		t.Fatalf("expected empty text to be stored as NULL, got %#v", value)
	}

	value, err = Text("<p>Boil</p>").Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "Boil" {
		t.Fatalf("expected normalized value, got %#v", value)
	}
}

func TestLine(t *testing.T) {
	line := NewLine("  Pasta\n<b>bake</b>  ")
	if line.String() != "Pasta bake" {
		t.Fatalf("expected folded line, got %q", line)
	}

	value, err := Line("").Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty line stored as empty string, got %#v", value)
	}

	var raw Line = "<em>unsafe</em>"
	if got := raw.String(); got != "unsafe" {
		t.Fatalf("expected String to normalize stored value, got %q", got)
	}
}

func TestJSONRoundTripNormalizes(t *testing.T) {
	var payload struct {
		Name         Line `json:"name"`
		Instructions Text `json:"instructions"`
	}
	input := `{"name":"<script>x</script>Pasta","instructions":null}`
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Name != "Pasta" {
		t.Fatalf("expected name normalized on decode, got %q", payload.Name)
	}
	if payload.Instructions != "" {
		t.Fatalf("expected null to decode as empty, got %q", payload.Instructions)
	}

	out, err := json.Marshal(struct {
		Name Line `json:"name"`
	}{Name: "<b>Soup</b>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if diff := cmp.Diff(`{"name":"Soup"}`, string(out)); diff != "" {
		t.Fatalf("marshal mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalText(t *testing.T) {
	var line Line
	if err := line.UnmarshalText([]byte("<i>Tacos</i>\n")); err != nil {
		t.Fatalf("unmarshal text: %v", err)
	}
	if line != "Tacos" {
		t.Fatalf("expected Tacos, got %q", line)
	}
}

func deeplyEscaped(s string, depth int) string {
	for i := 0; i < depth; i++ {
		s = strings.ReplaceAll(s, "&", "&amp;")
	}
	return s
}
