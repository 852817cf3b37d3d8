// Package extract renders PHP playground sources without running them.
//
// It is a best-effort extractor, not an interpreter: a fixed, ordered list
// of independent regexp passes recognises common textbook shapes inside the
// first <?php region (string and array assignments, echo statements with an
// optional interpolated variable, one foreach loop, one single-parameter
// function call) and concatenates what they produce. Anything else is
// skipped silently. When nothing is produced, a diagnostic page that shows
// the escaped source is returned instead.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	regionRe = regexp.MustCompile(`(?s)<\?php(.*?)(?:\?>|$)`)

	scalarRe   = regexp.MustCompile(`\$(\w+)\s*=\s*(?:"([^"']*)"|'([^"']*)');`)
	listRe     = regexp.MustCompile(`(?s)\$(\w+)\s*=\s*\[(.*?)\];`)
	listItemRe = regexp.MustCompile(`["']([^"']+)["']`)

	// A literal without "$" is echoed verbatim; otherwise the last $name
	// in the literal is interpolated and everything before it stays as-is.
	echoRe = regexp.MustCompile(`echo\s+["']([^"'$]*)["'];|echo\s+["']([^"]*)\$(\w+)([^"']*)["'];`)

	foreachRe  = regexp.MustCompile(`foreach\s*\(\$(\w+)\s+as\s+\$(\w+)\)\s*\{([^}]+)\}`)
	loopEchoRe = regexp.MustCompile(`echo\s+["']<(\w+)>\$\w+</(\w+)>["'];`)

	funcRe = regexp.MustCompile(`function\s+(\w+)\s*\(\$(\w+)\)\s*\{[^}]*return\s+["']([^"']*)["']\s*\.\s*\$(\w+)\s*\.\s*["']([^"']*)["'];?\s*\}`)
)

// Result describes one extraction.
type Result struct {
	Output string
	// Passthrough is set when the source has no <?php region and was
	// returned unchanged.
	Passthrough bool
	// Fallback is set when the region produced nothing and Output is the
	// diagnostic page.
	Fallback bool
}

// Extract renders source using the current year for $year.
func Extract(source string) string {
	return Run(source, time.Now()).Output
}

// ExtractAt renders source as if it ran at now.
func ExtractAt(source string, now time.Time) string {
	return Run(source, now).Output
}

// Run performs the extraction passes in order.
func Run(source string, now time.Time) Result {
	region := regionRe.FindStringSubmatch(source)
	if region == nil {
		return Result{Output: source, Passthrough: true}
	}
	code := region[1]

	vars := captureBindings(code)
	vars["year"] = binding{scalar: strconv.Itoa(now.Year())}

	loop := foreachRe.FindStringSubmatchIndex(code)

	var out strings.Builder
	emitEchoes(&out, code, vars, loop)
	emitLoop(&out, code, vars, loop)
	emitFunctionCall(&out, code)

	if strings.TrimSpace(out.String()) == "" {
		return Result{Output: fallbackDocument(source), Fallback: true}
	}
	return Result{Output: out.String()}
}

type binding struct {
	scalar string
	list   []string
	isList bool
}

func (b binding) String() string {
	if b.isList {
		return strings.Join(b.list, ",")
	}
	return b.scalar
}

// captureBindings collects string assignments first, then array
// assignments, so an array always wins over a string of the same name.
func captureBindings(code string) map[string]binding {
	vars := make(map[string]binding)

	for _, m := range scalarRe.FindAllStringSubmatchIndex(code, -1) {
		name := code[m[2]:m[3]]
		if m[4] >= 0 {
			vars[name] = binding{scalar: code[m[4]:m[5]]}
		} else {
			vars[name] = binding{scalar: code[m[6]:m[7]]}
		}
	}

	for _, m := range listRe.FindAllStringSubmatch(code, -1) {
		items := []string{}
		for _, item := range listItemRe.FindAllStringSubmatch(m[2], -1) {
			items = append(items, item[1])
		}
		vars[m[1]] = binding{list: items, isList: true}
	}
	return vars
}

// emitEchoes skips statements in the loop body that reference the loop
// variable; those belong to emitLoop.
func emitEchoes(out *strings.Builder, code string, vars map[string]binding, loop []int) {
	for _, m := range echoRe.FindAllStringSubmatchIndex(code, -1) {
		switch {
		case m[2] >= 0 && m[3] > m[2]:
			out.WriteString(code[m[2]:m[3]])
		case m[4] >= 0:
			name := code[m[6]:m[7]]
			if loop != nil && m[0] >= loop[6] && m[1] <= loop[7] && name == code[loop[4]:loop[5]] {
				continue
			}
			out.WriteString(code[m[4]:m[5]])
			if v, ok := vars[name]; ok {
				out.WriteString(v.String())
			} else {
				out.WriteString("$" + name)
			}
			out.WriteString(code[m[8]:m[9]])
		}
	}
}

// emitLoop handles the first foreach only. The body must hold an echo of a
// single variable wrapped in one tag, with the same tag name on both sides.
func emitLoop(out *strings.Builder, code string, vars map[string]binding, loop []int) {
	if loop == nil {
		return
	}
	list, ok := vars[code[loop[2]:loop[3]]]
	if !ok || !list.isList {
		return
	}

	tag := ""
	for _, m := range loopEchoRe.FindAllStringSubmatch(code[loop[6]:loop[7]], -1) {
		if m[1] == m[2] {
			tag = m[1]
			break
		}
	}
	if tag == "" {
		return
	}
	for _, item := range list.list {
		out.WriteString("<" + tag + ">" + item + "</" + tag + ">")
	}
}

// emitFunctionCall handles the first function of the shape
// function f($p) { return "a" . $p . "b"; } and its first call inside a
// paragraph echo.
func emitFunctionCall(out *strings.Builder, code string) {
	var fn []string
	for _, m := range funcRe.FindAllStringSubmatch(code, -1) {
		if m[2] == m[4] {
			fn = m
			break
		}
	}
	if fn == nil {
		return
	}
	name, prefix, suffix := fn[1], fn[3], fn[5]

	callRe, err := regexp.Compile(`echo\s+["']<p>["']\s*\.\s*` + regexp.QuoteMeta(name) + `\s*\(["']([^"']+)["']\)\s*\.\s*["']</p>["'];`)
	if err != nil {
		return
	}
	call := callRe.FindStringSubmatch(code)
	if call == nil {
		return
	}
	out.WriteString("<p>" + prefix + call[1] + suffix + "</p>")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

func fallbackDocument(source string) string {
	return `<div style="padding: 20px; font-family: system-ui;">
  <h1 style="color: #8b5cf6;">PHP Playground</h1>
  <p>Your PHP code is ready!</p>
  <p style="color: #888;">Note: output is produced by a pattern-based simulator, not a PHP runtime.</p>
  <p style="color: #888;">Only common constructs such as echo, simple variables, arrays, foreach and small functions are rendered.</p>
  <hr style="border-color: #333; margin: 20px 0;">
  <h3>Your code:</h3>
  <pre style="background: #1e1e1e; color: #9cdcfe; padding: 16px; border-radius: 8px; overflow: auto;">` + EscapeHTML(source) + `</pre>
</div>`
}
