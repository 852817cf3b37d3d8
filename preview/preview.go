// Package preview turns run output into a standalone HTML page.
package preview

import "strings"

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>PHP Output</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      padding: 20px;
      margin: 0;
      background: #fff;
      color: #333;
    }
  </style>
</head>
<body>
`

const pageTail = `
</body>
</html>`

// IsDocument reports whether html already is a full page.
func IsDocument(html string) bool {
	return strings.Contains(html, "<!DOCTYPE") || strings.Contains(html, "<html")
}

// Document wraps an HTML fragment in a minimal page. Full pages are
// returned unchanged.
func Document(html string) string {
	if IsDocument(html) {
		return html
	}
	return pageHead + html + pageTail
}
