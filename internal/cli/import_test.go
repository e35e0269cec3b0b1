package cli

import (
	"testing"

	"github.com/engramd/engram/internal/domain"
)

func TestFileTypeFromExt(t *testing.T) {
	cases := map[string]domain.FileType{
		"book.pdf":     domain.FilePDF,
		"book.PDF":     domain.FilePDF,
		"book.epub":    domain.FileEPUB,
		"page.html":    domain.FileHTML,
		"notes.md":     domain.FileMarkdown,
		"clip.mp4":     domain.FileVideo,
		"whatever.txt": domain.FileText,
		"no_extension": domain.FileText,
	}
	for path, want := range cases {
		if got := fileTypeFromExt(path); got != want {
			t.Errorf("fileTypeFromExt(%q) = %q, want %q", path, got, want)
		}
	}
}
