package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"bucket-browser/internal/browser"
)

func TestPrintEntries(t *testing.T) {
	size := int64(2048)
	modified := time.Now().Add(-time.Hour)
	items := []browser.Entry{
		{Name: "docs", Kind: browser.Folder, FullPath: "docs/"},
		{Name: "cat.jpg", Kind: browser.File, Size: &size, LastModified: &modified, FullPath: "cat.jpg"},
		{Name: "dump.zip", Kind: browser.File, Size: &size, LastModified: &modified, FullPath: "dump.zip"},
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	printEntries(cmd, items)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines; want 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "docs/") || !strings.HasSuffix(lines[0], "folder") {
		t.Errorf("folder line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2.0 kB") || !strings.HasSuffix(lines[1], "image,preview") {
		t.Errorf("image line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "archive") {
		t.Errorf("archive line = %q", lines[2])
	}
}
