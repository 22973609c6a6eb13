// Package lsconfig generates the vhdl_ls.toml project file consumed by the
// VHDL-LS language server. The output is a pure projection of the project
// graph: libraries in registration order, file lists verbatim, every path
// rendered with forward slashes so the artifact diffs cleanly across hosts.
package lsconfig

import (
	"regexp"
	"strings"

	"hdlbench/internal/core/errors"
	"hdlbench/internal/project"
	"hdlbench/internal/shared/util"
)

var bareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Render produces the artifact text. Calling it twice on an unchanged graph
// yields byte-identical output.
func Render(p *project.Project) string {
	var b strings.Builder
	for _, lib := range p.Libraries() {
		b.WriteString("[libraries.")
		b.WriteString(sectionKey(lib.Name()))
		b.WriteString("]\n")
		writeFileList(&b, lib.Files())
	}
	return b.String()
}

// Emit writes the rendered artifact to destination, creating parent
// directories as needed. Failures surface as WRITE_FAILED and any
// previously written artifact is left as-is.
func Emit(p *project.Project, destination string) error {
	content := Render(p)
	if err := util.WriteStringWithDirs(destination, content, 0o644); err != nil {
		derr := &errors.DomainError{Code: errors.CodeWriteFailed, Message: "write editor config", Err: err}
		derr.WithContext(errors.CtxPath, destination)
		return derr
	}
	return nil
}

func writeFileList(b *strings.Builder, files []string) {
	if len(files) == 0 {
		b.WriteString("files = []\n")
		return
	}
	b.WriteString("files = [\n")
	for i, f := range files {
		b.WriteString("    ")
		b.WriteString(quote(util.SlashPath(f)))
		if i < len(files)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")
}

func sectionKey(name string) string {
	if bareKeyRe.MatchString(name) {
		return name
	}
	return quote(name)
}

func quote(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
