package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxCodeFileBytes bounds files eligible for summarization. Oversized files
// are skipped, not failed, matching the walk-and-continue contract.
const maxCodeFileBytes = 10 * 1024

// CodeAdapter scans source directories and emits one structural summary per
// Go file: package name, declared types with doc comments, and function
// signatures. Full mode only; the corpus builder omits it in constrained mode.
type CodeAdapter struct {
	dirs     []string
	maxChars int
	logger   *slog.Logger
}

// NewCodeAdapter creates a code adapter over the given directories.
func NewCodeAdapter(dirs []string, maxChars int, logger *slog.Logger) *CodeAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CodeAdapter{dirs: dirs, maxChars: maxChars, logger: logger}
}

// Name implements Adapter.
func (*CodeAdapter) Name() string { return "code" }

// Collect implements Adapter. Unreadable or unparsable files are counted and
// skipped; only a completely missing directory set yields an error, and even
// then whatever was gathered is returned.
func (a *CodeAdapter) Collect(ctx context.Context) ([]Fragment, error) {
	var fragments []Fragment
	var scanned, skipped, failed int

	for _, dir := range a.dirs {
		if _, statErr := os.Stat(dir); statErr != nil {
			a.logger.Debug("code directory unavailable, skipping", "dir", dir, "error", statErr)
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				failed++
				return nil // Keep walking even if one entry fails
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				// Vendored and hidden trees carry no app knowledge
				name := d.Name()
				if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") && name != "." {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				skipped++
				return nil
			}

			info, infoErr := d.Info()
			if infoErr != nil || info.Size() > maxCodeFileBytes {
				skipped++
				return nil
			}

			summary, ok := summarizeGoFile(path)
			if !ok {
				failed++
				return nil
			}

			if f, fok := NewFragment(summary, "Code: "+filepath.Base(path), CategoryCode, a.maxChars); fok {
				fragments = append(fragments, f)
				scanned++
			}
			return nil
		})
		if err != nil {
			return fragments, fmt.Errorf("walking %s: %w", dir, err)
		}
	}

	a.logger.Debug("collected code fragments",
		"files", scanned, "skipped", skipped, "failed", failed)
	return fragments, nil
}

// summarizeGoFile extracts a structural summary of one Go source file.
// On parse failure it falls back to the first kilobyte of raw content.
func summarizeGoFile(path string) (string, bool) {
	src, err := os.ReadFile(path) // #nosec G304 -- paths come from configured scan dirs
	if err != nil {
		return "", false
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		// Raw fallback mirrors the skip-not-fail contract
		return fmt.Sprintf("File: %s\n\nContent (truncated):\n%s",
			filepath.Base(path), Truncate(string(src), 1000)), true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\nPackage: %s\n", filepath.Base(path), file.Name.Name)
	if doc := file.Doc.Text(); doc != "" {
		fmt.Fprintf(&b, "Description: %s", doc)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				fmt.Fprintf(&b, "\nType: %s", ts.Name.Name)
				if doc := firstLine(d.Doc.Text()); doc != "" {
					fmt.Fprintf(&b, " - %s", doc)
				}
			}
		case *ast.FuncDecl:
			fmt.Fprintf(&b, "\nFunc: %s%s", receiverPrefix(fset, d), signature(fset, d))
			if doc := firstLine(d.Doc.Text()); doc != "" {
				fmt.Fprintf(&b, " - %s", doc)
			}
		}
	}

	return b.String(), true
}

// receiverPrefix renders "(*Foo)." for methods, "" for functions.
func receiverPrefix(fset *token.FileSet, d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return ""
	}
	return "(" + exprString(fset, d.Recv.List[0].Type) + ")."
}

// signature renders the function name and parameter/result lists.
func signature(fset *token.FileSet, d *ast.FuncDecl) string {
	return d.Name.Name + exprString(fset, d.Type)[len("func"):]
}

// exprString prints an AST expression back to source form.
func exprString(fset *token.FileSet, expr ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}

// firstLine returns the first non-empty line of a doc comment.
func firstLine(s string) string {
	for line := range strings.Lines(s) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
