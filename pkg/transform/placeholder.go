package transform

import (
	"fmt"
	"strings"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// ExpandPlaceholders performs the textual {identifier} substitution spec'd
// for requiredDataSources templates (e.g. "IDX:{ticker}:c" with
// ticker=SPX -> "IDX:SPX:c"). Multiple placeholders are allowed; a
// placeholder with no matching option is an error, since the runtime has
// no other source of that value.
func ExpandPlaceholders(template string, options map[string]types.ConstantValue) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(template) {
		open := strings.IndexByte(template[i:], '{')
		if open == -1 {
			b.WriteString(template[i:])
			break
		}
		b.WriteString(template[i : i+open])
		start := i + open + 1
		close := strings.IndexByte(template[start:], '}')
		if close == -1 {
			return "", fmt.Errorf("transform: unterminated placeholder in %q", template)
		}
		name := template[start : start+close]
		v, ok := options[name]
		if !ok {
			return "", fmt.Errorf("transform: no option named %q to fill placeholder in %q", name, template)
		}
		b.WriteString(v.String())
		i = start + close + 1
	}
	return b.String(), nil
}

// ExpandAllPlaceholders applies ExpandPlaceholders to every template in turn.
func ExpandAllPlaceholders(templates []string, options map[string]types.ConstantValue) ([]string, error) {
	out := make([]string, len(templates))
	for i, tpl := range templates {
		expanded, err := ExpandPlaceholders(tpl, options)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}
