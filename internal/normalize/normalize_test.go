package normalize

import (
	"regexp"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestConvertCallouts - Callout tags to message directives
// ---------------------------------------------------------------------------

func TestConvertCallouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tip becomes message",
			input: "<Tip>\nHello\n</Tip>",
			want:  ":::message\nHello\n:::",
		},
		{
			name:  "warning becomes alert",
			input: "<Warning>\nCareful\n</Warning>\n",
			want:  ":::message alert\nCareful\n:::\n",
		},
		{
			name:  "callout with attributes becomes alert",
			input: "<Callout icon=\"x\">Heads up</Callout>",
			want:  ":::message alert\nHeads up\n:::",
		},
		{
			name:  "note and info become message",
			input: "<Note>a</Note>\n<Info>b</Info>",
			want:  ":::message\na\n:::\n:::message\nb\n:::",
		},
		{
			name:  "same tag nested is left alone",
			input: "<Tip><Tip></Tip>\ntext </Tip>",
			want:  "<Tip><Tip></Tip>\ntext </Tip>",
		},
		{
			name:  "different tags nest",
			input: "<Note>\n<Tip>x</Tip>\n</Note>",
			want:  ":::message\n:::message\nx\n:::\n:::",
		},
		{
			name:  "inline tag is moved to its own lines",
			input: "Text <Danger>Stop</Danger> more",
			want:  "Text \n:::message alert\nStop\n:::\nmore",
		},
		{
			name:  "empty body",
			input: "<Tip></Tip>",
			want:  ":::message\n:::",
		},
		{
			name:  "tag inside fence untouched",
			input: "```md\n<Tip>\nx\n</Tip>\n```\n",
			want:  "```md\n<Tip>\nx\n</Tip>\n```\n",
		},
		{
			name:  "body spanning a fence keeps the fence",
			input: "<Tip>\n```js\n<Tip>\n```\n</Tip>",
			want:  ":::message\n```js\n<Tip>\n```\n:::",
		},
		{
			name:  "unterminated tag left alone",
			input: "<Tip>\nno end",
			want:  "<Tip>\nno end",
		},
		{
			name:  "lookalike tag names untouched",
			input: "<Tips>x</Tips>",
			want:  "<Tips>x</Tips>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ConvertCallouts(tt.input)
			if got != tt.want {
				t.Errorf("ConvertCallouts(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNormalizeCodeMeta - Fence opener canonicalization
// ---------------------------------------------------------------------------

func TestNormalizeCodeMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "language and filename",
			input: "```php routes/web.php\necho 1;\n```",
			want:  "```php:routes/web.php\necho 1;\n```",
		},
		{
			name:  "theme annotation removed",
			input: "```js theme={\"dark\"}\nx\n```",
			want:  "```js\nx\n```",
		},
		{
			name:  "theme removed then filename joined",
			input: "```ts app.ts theme={\"dark\"}\nx\n```",
			want:  "```ts:app.ts\nx\n```",
		},
		{
			name:  "already canonical",
			input: "```php:routes/web.php\n```",
			want:  "```php:routes/web.php\n```",
		},
		{
			name:  "key value meta untouched",
			input: "```js title=\"x\"\n```",
			want:  "```js title=\"x\"\n```",
		},
		{
			name:  "three fields untouched",
			input: "```js a b\n```",
			want:  "```js a b\n```",
		},
		{
			name:  "indented tilde fence keeps indentation",
			input: "  ~~~go main.go\n  x\n  ~~~",
			want:  "  ~~~go:main.go\n  x\n  ~~~",
		},
		{
			name:  "content lines untouched",
			input: "```\n```js file.js\n```",
			want:  "```\n```js file.js\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeCodeMeta(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeCodeMeta(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertSteps - Steps unwrapping
// ---------------------------------------------------------------------------

func TestConvertSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "titled and untitled steps",
			input: "<Steps>\n" +
				"    <Step title=\"Install\">\n" +
				"        Run the installer.\n" +
				"    </Step>\n" +
				"    <Step>\n" +
				"        Done.\n" +
				"    </Step>\n" +
				"</Steps>",
			want: "\n### Install\n\nRun the installer.\n\n###\n\nDone.\n\n",
		},
		{
			name: "fenced code inside a step is dedented",
			input: "<Steps>\n" +
				"    <Step title=\"Run\">\n" +
				"        ```sh\n" +
				"        make\n" +
				"        ```\n" +
				"    </Step>\n" +
				"</Steps>",
			want: "\n### Run\n\n```sh\nmake\n```\n\n",
		},
		{
			name:  "only four spaces per pass",
			input: "<Steps>\n" + strings.Repeat(" ", 10) + "deep\n</Steps>",
			want:  "\n  deep\n",
		},
		{
			name:  "nested steps left unchanged",
			input: "<Steps><Steps></Steps></Steps>",
			want:  "<Steps><Steps></Steps></Steps>",
		},
		{
			name:  "steps inside a fence untouched",
			input: "```\n<Steps>\n    <Step>\n</Steps>\n```",
			want:  "```\n<Steps>\n    <Step>\n</Steps>\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ConvertSteps(tt.input)
			if got != tt.want {
				t.Errorf("ConvertSteps(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertTabs - Tabs, Tab and CodeGroup tags
// ---------------------------------------------------------------------------

func TestConvertTabs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "tabs with titled tabs",
			input: "<Tabs>\n<Tab title=\"npm\">\nnpm i\n</Tab>\n" +
				"<Tab title=\"yarn\">\nyarn add\n</Tab>\n</Tabs>",
			want: "::::tabs\n:::tab{title=\"npm\"}\nnpm i\n:::\n" +
				":::tab{title=\"yarn\"}\nyarn add\n:::\n::::",
		},
		{
			name:  "code group around a fence",
			input: "<CodeGroup>\n```js index.js\n</CodeGroup>\n```\n</CodeGroup>",
			want:  ":::code-tabs\n```js index.js\n</CodeGroup>\n```\n:::",
		},
		{
			name:  "self-closing tab",
			input: "<Tab title=\"x\" />",
			want:  ":::tab{title=\"x\"}\n:::",
		},
		{
			name:  "indented tags",
			input: "  <Tab title=\"a\">\n  body\n  </Tab>",
			want:  ":::tab{title=\"a\"}\n  body\n:::",
		},
		{
			name:  "table tag untouched",
			input: "<Table>\n</Table>",
			want:  "<Table>\n</Table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ConvertTabs(tt.input)
			if got != tt.want {
				t.Errorf("ConvertTabs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertColumns - Columns and Card conversion
// ---------------------------------------------------------------------------

func TestConvertColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		prefix string
		want   string
	}{
		{
			name:   "cards with version prefix stripped",
			input:  `<Columns cols={3}><Card title="X" href="/v2/docs">Y</Card></Columns>`,
			prefix: "v2",
			want:   ":::columns{cols=3}\n:::card{title=\"X\" href=\"/docs\"}\nY\n:::\n:::",
		},
		{
			name:  "cols defaults to 2",
			input: "<Columns>\n  <Card title=\"A\">\n    a\n  </Card>\n</Columns>",
			want:  ":::columns{cols=2}\n:::card{title=\"A\"}\na\n:::\n:::",
		},
		{
			name:  "non-numeric cols defaults to 2",
			input: `<Columns cols="wide"><Card title="A">a</Card></Columns>`,
			want:  ":::columns{cols=2}\n:::card{title=\"A\"}\na\n:::\n:::",
		},
		{
			name:  "card attributes ordered title href icon",
			input: `<Columns cols={2}><Card icon="star" arrow title="T" href="/x" /></Columns>`,
			want:  ":::columns{cols=2}\n:::card{title=\"T\" href=\"/x\" icon=\"star\" arrow=true}\n:::\n:::",
		},
		{
			name:  "quotes re-escaped",
			input: `<Columns><Card title='Say "hi"'>b</Card></Columns>`,
			want:  ":::columns{cols=2}\n:::card{title=\"Say \\\"hi\\\"\"}\nb\n:::\n:::",
		},
		{
			name:  "no cards leaves block unchanged",
			input: "<Columns cols={2}>\ntext\n</Columns>",
			want:  "<Columns cols={2}>\ntext\n</Columns>",
		},
		{
			name:  "inside fence untouched",
			input: "```\n<Columns><Card>a</Card></Columns>\n```",
			want:  "```\n<Columns><Card>a</Card></Columns>\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ConvertColumns(tt.input, tt.prefix)
			if got != tt.want {
				t.Errorf("ConvertColumns(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvertCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "only surrounding blank lines stripped",
			input: "<Card title=\"A\" href=\"/v2/x\">\n\n  body\n\n</Card>",
			want:  ":::card{title=\"A\" href=\"/x\"}\n  body\n:::",
		},
		{
			name:  "self-closing card",
			input: "<Card title=\"A\"/>",
			want:  ":::card{title=\"A\"}\n:::",
		},
		{
			name:  "cards tag untouched",
			input: "<Cards>x</Cards>",
			want:  "<Cards>x</Cards>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ConvertCards(tt.input, "v2")
			if got != tt.want {
				t.Errorf("ConvertCards(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRewriteLinks - Internal link rewriting
// ---------------------------------------------------------------------------

func TestRewriteLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		prefix    string
		namespace string
		want      string
	}{
		{
			name:   "version prefix stripped",
			input:  "[a](/v2/docs/intro) and [b](v2/page \"T\")",
			prefix: "v2",
			want:   "[a](/docs/intro) and [b](page \"T\")",
		},
		{
			name:      "namespace added to root-relative",
			input:     "[a](/v2/docs) [b](./rel)",
			prefix:    "v2",
			namespace: "laravel",
			want:      "[a](/laravel/docs) [b](./rel)",
		},
		{
			name:      "already namespaced",
			input:     "[a](/laravel/docs)",
			namespace: "/laravel/",
			want:      "[a](/laravel/docs)",
		},
		{
			name:      "external, fragment, mailto and images untouched",
			input:     "[a](https://x.com/v2/) [b](#top) [c](mailto:a@b.c) ![i](/v2/img.png)",
			prefix:    "v2",
			namespace: "ns",
			want:      "[a](https://x.com/v2/) [b](#top) [c](mailto:a@b.c) ![i](/v2/img.png)",
		},
		{
			name:   "inside fence untouched",
			input:  "```\n[a](/v2/x)\n```\n[b](/v2/y)",
			prefix: "v2",
			want:   "```\n[a](/v2/x)\n```\n[b](/y)",
		},
		{
			name:  "no prefix strips any version segment",
			input: "[a](/v3/x) [b](/version/y) [c](/docs/v2)",
			want:  "[a](/x) [b](/version/y) [c](/docs/v2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RewriteLinks(tt.input, tt.prefix, tt.namespace)
			if got != tt.want {
				t.Errorf("RewriteLinks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripVersionPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target string
		prefix string
		want   string
	}{
		{"/v2/docs", "v2", "/docs"},
		{"v2/docs", "v2", "docs"},
		{"/v2/v2/docs", "v2", "/docs"},
		{"/v2", "v2", "/"},
		{"/v20/docs", "v2", "/v20/docs"},
		{"/docs/v2/x", "v2", "/docs/v2/x"},
		{"/v2/docs", "", "/docs"},
		{"/v20/docs", "", "/docs"},
		{"v1/v2/docs", "", "docs"},
		{"/v3", "", "/"},
		{"v3", "", "v3"},
		{"/vendor/docs", "", "/vendor/docs"},
		{"/docs/v2/x", "", "/docs/v2/x"},
	}

	for _, tt := range tests {
		t.Run(tt.target+"/"+tt.prefix, func(t *testing.T) {
			t.Parallel()
			if got := StripVersionPrefix(tt.target, tt.prefix); got != tt.want {
				t.Errorf("StripVersionPrefix(%q, %q) = %q, want %q", tt.target, tt.prefix, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTextPasses - Line endings and blank lines
// ---------------------------------------------------------------------------

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	got := NormalizeLineEndings("a\r\nb\rc\n")
	if got != "a\nb\nc\n" {
		t.Errorf("NormalizeLineEndings() = %q", got)
	}
}

func TestCompressBlankLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "compressed", input: "a\n\n\n\nb", want: "a\n\nb"},
		{name: "single blank kept", input: "a\n\nb", want: "a\n\nb"},
		{name: "fence kept", input: "```\n\n\n\n```\n\n\n\nx", want: "```\n\n\n\n```\n\nx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CompressBlankLines(tt.input); got != tt.want {
				t.Errorf("CompressBlankLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplaceBlocks(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`<X>`)
	repl := func([]string) (string, bool) { return "Y", true }

	tests := []struct {
		input string
		want  string
	}{
		{"a <X> b", "a \nY\nb"},
		{"  <X>\nz", "Y\nz"},
		{"<X><X>", "Y\nY"},
		{"none", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := replaceBlocks(tt.input, re, repl); got != tt.want {
				t.Errorf("replaceBlocks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDedent(t *testing.T) {
	t.Parallel()

	got := dedent("      a\n  b\nc\n\tt", 4)
	want := "  a\nb\nc\n\tt"
	if got != want {
		t.Errorf("dedent() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestIdempotence - P(P(T)) == P(T) for every pass
// ---------------------------------------------------------------------------

var idempotenceInputs = []string{
	"",
	"plain text\n",
	"<Tip>\nHello\n</Tip>",
	"Before <Warning>x</Warning> after\r\n\r\n\r\n\r\nend",
	"```php routes/web.php\necho 1;\n```\n```js theme={\"dark\"}\nx\n```",
	"<Steps>\n    <Step title=\"A\">\n        a\n    </Step>\n</Steps>\n",
	"<Tabs>\n<Tab title=\"a\">\nx\n</Tab>\n</Tabs>\n<CodeGroup>\n```js a.js\n```\n</CodeGroup>",
	`<Columns cols={3}><Card title="X" href="/v2/docs">Y</Card></Columns>`,
	"<Card title=\"A\" href=\"v2/x\">\n\n  body\n\n</Card>",
	"[a](/v2/docs) [b](v2/v2/x) [c](https://e.com) ![i](/v2/i.png)",
	"```\n<Tip>\n<Columns><Card>a</Card></Columns>\n```\n\n\n\n",
	"<Columns>\nno cards\n</Columns>",
	"<Tip><Tip></Tip>\ntext </Tip>",
	"<Steps><Steps></Steps></Steps>",
	"text <Tab title=\"A\"></Tab>```php a.php\n</CodeGroup>",
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	opts := Options{VersionPrefix: "v2", Namespace: "docs-ns"}
	for _, d := range Dialects {
		for _, p := range Passes(d, opts) {
			t.Run(string(d)+"/"+p.Name, func(t *testing.T) {
				t.Parallel()
				for _, input := range idempotenceInputs {
					once := p.Apply(input)
					twice := p.Apply(once)
					if once != twice {
						t.Errorf("pass %s not idempotent on %q:\nonce:  %q\ntwice: %q", p.Name, input, once, twice)
					}
				}
			})
		}
	}

	for _, d := range Dialects {
		t.Run(string(d)+"/all", func(t *testing.T) {
			t.Parallel()
			for _, input := range idempotenceInputs {
				once := Normalize(input, d, opts)
				if twice := Normalize(once, d, opts); once != twice {
					t.Errorf("Normalize(%s) not idempotent on %q:\nonce:  %q\ntwice: %q", d, input, once, twice)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNormalize - Dialect pass tables
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	input := "<Tip>\nHello\n</Tip>\r\n\r\n\r\n\r\n```php routes/web.php\necho 1;\n```\n"

	tests := []struct {
		dialect Dialect
		want    string
	}{
		{
			dialect: Mintlify,
			want:    ":::message\nHello\n:::\n\n```php:routes/web.php\necho 1;\n```\n",
		},
		{
			dialect: Zenn,
			want:    "<Tip>\nHello\n</Tip>\n\n```php routes/web.php\necho 1;\n```\n",
		},
		{
			dialect: Plain,
			want:    "<Tip>\nHello\n</Tip>\n\n```php routes/web.php\necho 1;\n```\n",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			t.Parallel()
			got := Normalize(input, tt.dialect, Options{})
			if got != tt.want {
				t.Errorf("Normalize(%s) = %q, want %q", tt.dialect, got, tt.want)
			}
		})
	}
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   Dialect
		wantOK bool
	}{
		{"mintlify", Mintlify, true},
		{" Zenn ", Zenn, true},
		{"PLAIN", Plain, true},
		{"hugo", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDialect(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDialect(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPassesOrder(t *testing.T) {
	t.Parallel()

	var names []string
	for _, p := range Passes(Mintlify, Options{}) {
		names = append(names, p.Name)
	}
	want := "line-endings,callouts,code-meta,steps,tabs,columns,cards,code-meta-final,links,blank-lines"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("Passes(mintlify) = %s, want %s", got, want)
	}
}
