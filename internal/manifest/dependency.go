package manifest

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ErrDependencyMissing means the table does not list the crate.
var ErrDependencyMissing = errors.New("dependency not listed")

// DependencyVersion returns the version requirement of crate in the given
// dependency table ("dependencies" or "dev-dependencies"). Both the string
// form and the inline-table form are understood.
func DependencyVersion(data []byte, table, crate string) (string, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing TOML: %w", err)
	}

	deps, ok := doc[table].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: no [%s] table", ErrDependencyMissing, table)
	}

	switch dep := deps[crate].(type) {
	case string:
		return dep, nil
	case map[string]interface{}:
		v, ok := dep["version"].(string)
		if !ok {
			return "", fmt.Errorf("%s.%s has no version", table, crate)
		}
		return v, nil
	case nil:
		return "", fmt.Errorf("%w: %s in [%s]", ErrDependencyMissing, crate, table)
	default:
		return "", fmt.Errorf("%s.%s has unexpected type %T", table, crate, dep)
	}
}
