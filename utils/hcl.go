package utils

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// decodeHCLWorld parses an HCL world file. Attribute expressions may read
// the process environment through env.NAME.
func decodeHCLWorld(filename string) (worldFile, error) {
	var wf worldFile

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return wf, errors.Wrapf(diags, "[LoadConfig] failed to parse HCL file: %+v", filename)
	}

	if diags = gohcl.DecodeBody(file.Body, envEvalContext(), &wf); diags.HasErrors() {
		return wf, errors.Wrapf(diags, "[LoadConfig] failed to decode HCL file: %+v", filename)
	}
	return wf, nil
}

// envEvalContext exposes environment variables as the "env" object
func envEvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !utf8.ValidString(value) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
