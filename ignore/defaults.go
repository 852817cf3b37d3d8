package ignore

// IgnoreFileNames are the per-project ignore files read from the import
// root, in precedence order.
var IgnoreFileNames = []string{".gitignore", ".playgroundignore"}

// alwaysSkippedDirs are never descended into.
var alwaysSkippedDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true, "bower_components": true,
	".idea": true, ".vscode": true, ".vs": true,
	".cache": true, ".next": true, ".nuxt": true,
	"coverage": true, ".phpunit.cache": true,
}

// DefaultIgnorePatterns are name or glob patterns that never make sense in
// an editable playground project. Plain names match any path segment;
// globs match the base name.
var DefaultIgnorePatterns = []string{
	// Environment and secrets
	".env",
	".env.*",

	// OS and editor droppings
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	"*.swp",
	"*~",

	// Lock files
	"composer.lock",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",

	// Build output
	"dist",
	"build",

	// Binaries and archives
	"*.exe",
	"*.dll",
	"*.so",
	"*.dylib",
	"*.phar",
	"*.zip",
	"*.tar",
	"*.tar.gz",
	"*.tgz",
	"*.rar",
	"*.7z",

	// Images, fonts and media
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.ico",
	"*.webp",
	"*.woff",
	"*.woff2",
	"*.ttf",
	"*.eot",
	"*.mp3",
	"*.mp4",
	"*.pdf",

	// Generated assets
	"*.min.js",
	"*.min.css",
	"*.map",

	// Logs and databases
	"*.log",
	"*.sqlite",
	"*.sqlite3",
	"*.db",
}
