// Package iodirectives materialises the load/store directives attached to
// a relation (§4.G "I/O directive materialisation"): default synthesis, the
// output-dir=- stdout override, and attributeNames composition.
package iodirectives

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
)

// Input builds the load directives for rel: one per declared Load, copied
// verbatim, or a single default directive if none were declared, each
// defaulted via makeIODirective with a ".facts" extension.
func Input(rel *ast.Relation, cfg *config.Config) ([]ast.IODirective, error) {
	if rel == nil {
		return nil, errors.New("iodirectives: nil relation")
	}
	directives := make([]ast.IODirective, 0, len(rel.Loads))
	for _, l := range rel.Loads {
		directives = append(directives, copyDirective(l))
	}
	if len(directives) == 0 {
		directives = append(directives, ast.IODirective{Params: map[string]string{}})
	}

	filePath := cfg.FactDir
	for i := range directives {
		if err := makeIODirective(&directives[i], rel, filePath, ".facts"); err != nil {
			return nil, errors.Wrapf(err, "relation %s: input directive %d", rel.Name, i)
		}
	}
	return directives, nil
}

// Output builds the store directives for rel, applying the output-dir=-
// stdout override (testable property 9 / scenario S6/S9) before defaulting
// and composing attributeNames.
func Output(rel *ast.Relation, cfg *config.Config, auxArity int) ([]ast.IODirective, error) {
	if rel == nil {
		return nil, errors.New("iodirectives: nil relation")
	}

	var directives []ast.IODirective
	if cfg.StdoutRedirect() {
		hasOutput := false
		for _, s := range rel.Stores {
			if s.IsPrintSize {
				directives = append(directives, ast.IODirective{Params: map[string]string{"IO": "stdoutprintsize"}})
				continue
			}
			if hasOutput {
				// Subsequent non-print-size stores are silently dropped
				// once stdout has already been claimed.
				continue
			}
			hasOutput = true
			directives = append(directives, ast.IODirective{Params: map[string]string{"IO": "stdout", "headers": "true"}})
		}
	} else {
		for _, s := range rel.Stores {
			directives = append(directives, copyDirective(s))
		}
	}
	if len(directives) == 0 {
		directives = append(directives, ast.IODirective{Params: map[string]string{}})
	}

	filePath := cfg.OutputDir
	for i := range directives {
		if err := makeIODirective(&directives[i], rel, filePath, ".csv"); err != nil {
			return nil, errors.Wrapf(err, "relation %s: output directive %d", rel.Name, i)
		}
		if _, ok := directives[i].Params["attributeNames"]; !ok {
			directives[i].Params["attributeNames"] = attributeNames(rel, directives[i], cfg, auxArity)
		}
	}
	return directives, nil
}

func attributeNames(rel *ast.Relation, d ast.IODirective, cfg *config.Config, auxArity int) string {
	delimiter := "\t"
	if v, ok := d.Params["delimiter"]; ok {
		delimiter = v
	}
	names := make([]string, len(rel.Attributes))
	for i, a := range rel.Attributes {
		names[i] = a.Name
	}
	if cfg.Provenance.Enabled() && auxArity <= len(names) {
		names = names[:len(names)-auxArity]
	}
	return strings.Join(names, delimiter)
}

// makeIODirective mirrors the original's defaulting pass: relation name is
// always set; an IO type of "file" is the default when absent; for file-
// typed directives, a default filename of "<relationName><ext>" is
// synthesised and, when relative, prefixed with filePath.
func makeIODirective(d *ast.IODirective, rel *ast.Relation, filePath, fileExt string) error {
	if d.Params == nil {
		d.Params = map[string]string{}
	}
	d.Params["relation"] = rel.Name

	if _, ok := d.Params["IO"]; !ok {
		d.Params["IO"] = "file"
	}
	if d.Params["IO"] != "file" {
		return nil
	}
	if _, ok := d.Params["filename"]; !ok {
		d.Params["filename"] = rel.Name + fileExt
	}
	name := d.Params["filename"]
	if name == "" {
		return errors.Errorf("relation %s: empty filename", rel.Name)
	}
	if !strings.HasPrefix(name, "/") {
		d.Params["filename"] = filePath + "/" + name
	}
	return nil
}

func copyDirective(d ast.IODirective) ast.IODirective {
	out := ast.IODirective{IsPrintSize: d.IsPrintSize}
	if d.Params != nil {
		out.Params = make(map[string]string, len(d.Params))
		for k, v := range d.Params {
			out.Params[k] = v
		}
	}
	return out
}
