package web

import (
	"io/fs"
	"testing"
)

func TestEmbeddedAssets(t *testing.T) {
	for _, name := range []string{"layout.html", "print_layout.html", "register.html", "error.html"} {
		if _, err := fs.Stat(TemplatesFS(), name); err != nil {
			t.Errorf("template %s: %v", name, err)
		}
	}
	if _, err := fs.Stat(StaticFS(), "style.css"); err != nil {
		t.Errorf("style.css: %v", err)
	}
	if _, err := fs.Stat(StaticFS(), "layout.html"); err == nil {
		t.Error("static files must not include templates")
	}
}
