package language

import "testing"

func Test_EditorLanguage_KnownExtensions(t *testing.T) {
	cases := map[string]string{
		"/index.php":           "php",
		"/src/App.tsx":         "typescript",
		"/styles.css":          "css",
		"/config/settings.yml": "yaml",
		"/scripts/build.sh":    "shell",
		"/notes.txt":           "plaintext",
	}
	for path, want := range cases {
		if got := EditorLanguage(path); got != want {
			t.Errorf("%s: expected %s, got %s", path, want, got)
		}
	}
}

func Test_EditorLanguage_DefaultsToPlainText(t *testing.T) {
	for _, path := range []string{"/data.xyz", "/Makefile", "/"} {
		if got := EditorLanguage(path); got != PlainText {
			t.Errorf("%s: expected %s, got %s", path, PlainText, got)
		}
	}
}

func Test_EditorLanguage_CaseInsensitive(t *testing.T) {
	if got := EditorLanguage("/README.MD"); got != "markdown" {
		t.Errorf("expected markdown, got %s", got)
	}
}

func Test_DisplayName(t *testing.T) {
	if got := DisplayName("/config/database.php"); got != "PHP" {
		t.Errorf("expected PHP, got %s", got)
	}
	if got := DisplayName("/image.png"); got != "Other" {
		t.Errorf("expected Other, got %s", got)
	}
}
