package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/agencykit/cms/internal/sanitizer"
)

func TestSanitizeStripsScriptTags(t *testing.T) {
	inputs := []string{
		`<p>hello</p><script>alert("xss")</script>`,
		`<script src="https://evil.example/x.js"></script><p>body</p>`,
		`<SCRIPT>document.cookie</SCRIPT>`,
		`<p>before</p><script type="text/javascript">while(true){}</script><p>after</p>`,
	}

	for _, input := range inputs {
		result := sanitizer.Sanitize(input)
		if strings.Contains(strings.ToLower(result.Sanitized), "<script") {
			t.Fatalf("script survived sanitization: %q -> %q", input, result.Sanitized)
		}
		if !result.Modified {
			t.Fatalf("expected modified flag for %q", input)
		}
	}
}

func TestSanitizeStripsSplicedScriptTags(t *testing.T) {
	// Removing an inner tag must not reassemble a live one from the
	// surrounding text.
	inputs := []string{
		`<scr<script>ipt src=x onerror=alert(1)`,
		`<scr<script>ipt>alert(1)</scr</script>ipt>`,
		`<scr<scr<script>ipt>ipt src=x>`,
		`<ifr<iframe>ame src="https://evil.example">`,
	}

	for _, input := range inputs {
		result := sanitizer.Sanitize(input)
		lowered := strings.ToLower(result.Sanitized)
		if strings.Contains(lowered, "<script") || strings.Contains(lowered, "<iframe") {
			t.Fatalf("spliced tag survived sanitization: %q -> %q", input, result.Sanitized)
		}
		if !result.Modified {
			t.Fatalf("expected modified flag for %q", input)
		}
	}
}

func TestSanitizeStripsIframes(t *testing.T) {
	result := sanitizer.Sanitize(`<iframe src="https://evil.example"></iframe><p>ok</p>`)
	if strings.Contains(result.Sanitized, "iframe") {
		t.Fatalf("iframe survived: %q", result.Sanitized)
	}
	if !strings.Contains(result.Sanitized, "<p>ok</p>") {
		t.Fatalf("paragraph lost: %q", result.Sanitized)
	}
}

func TestSanitizeStripsEventHandlers(t *testing.T) {
	result := sanitizer.Sanitize(`<p onclick="steal()" class="intro">text</p>`)
	if strings.Contains(strings.ToLower(result.Sanitized), "onclick") {
		t.Fatalf("event handler survived: %q", result.Sanitized)
	}
	if !strings.Contains(result.Sanitized, `class="intro"`) {
		t.Fatalf("allow-listed attribute lost: %q", result.Sanitized)
	}
}

func TestSanitizeRejectsJavascriptHrefs(t *testing.T) {
	result := sanitizer.Sanitize(`<a href="javascript:alert(1)" title="x">link</a>`)
	if strings.Contains(strings.ToLower(result.Sanitized), "javascript:") {
		t.Fatalf("javascript url survived: %q", result.Sanitized)
	}
	if !strings.Contains(result.Sanitized, `title="x"`) {
		t.Fatalf("title attribute lost: %q", result.Sanitized)
	}
}

func TestSanitizeFiltersAttributesPerTag(t *testing.T) {
	result := sanitizer.Sanitize(`<a href="https://example.com" data-track="1" style="color:red">go</a>`)

	if strings.Contains(result.Sanitized, "data-track") {
		t.Fatalf("non-allow-listed attribute survived: %q", result.Sanitized)
	}
	if strings.Contains(result.Sanitized, "style=") {
		t.Fatalf("style attribute survived on anchor: %q", result.Sanitized)
	}
	if !strings.Contains(result.Sanitized, `href="https://example.com"`) {
		t.Fatalf("allow-listed href lost: %q", result.Sanitized)
	}
}

func TestSanitizeStripsUnknownTags(t *testing.T) {
	result := sanitizer.Sanitize(`<p>keep</p><marquee>nope</marquee><object data="x"></object>`)
	for _, forbidden := range []string{"<marquee", "<object"} {
		if strings.Contains(result.Sanitized, forbidden) {
			t.Fatalf("%s survived: %q", forbidden, result.Sanitized)
		}
	}
	if !strings.Contains(result.Sanitized, "nope") {
		t.Fatalf("inner text of stripped tag lost: %q", result.Sanitized)
	}
}

func TestSanitizePreservesPlaceholders(t *testing.T) {
	inputs := []string{
		`<p>Dear {{client_name}},</p>`,
		`{{company}} — proposal for {{project_title}}`,
		`<badtag>{{token}}</badtag>`,
	}
	tokens := [][]string{
		{"{{client_name}}"},
		{"{{company}}", "{{project_title}}"},
		{"{{token}}"},
	}

	for i, input := range inputs {
		result := sanitizer.Sanitize(input)
		for _, token := range tokens[i] {
			if !strings.Contains(result.Sanitized, token) {
				t.Fatalf("placeholder %s lost from %q: %q", token, input, result.Sanitized)
			}
		}
	}
}

func TestSanitizeCleanInputUnmodified(t *testing.T) {
	input := `<p>plain paragraph</p>`
	result := sanitizer.Sanitize(input)
	if result.Modified {
		t.Fatalf("clean input reported as modified: %q -> %q", input, result.Sanitized)
	}
	if result.Sanitized != input {
		t.Fatalf("clean input changed: %q", result.Sanitized)
	}
}
