package nodeconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/samber/lo"
)

// Lookup resolves variables a config file references but does not define itself.
// os.LookupEnv is the usual choice.
type Lookup func(name string) (string, bool)

// ParseError locates a line the parser refused.
type ParseError struct {
	error
	File string
	Line int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.error)
}

func (e ParseError) Unwrap() error {
	return e.error
}

var (
	ErrNotAssignment        = errors.New("expected NAME=VALUE")
	ErrInvalidName          = errors.New("invalid variable name")
	ErrMultipleWords        = errors.New("value must be a single word")
	ErrUnknownExport        = errors.New("export of undefined variable")
	ErrCommand              = errors.New("value runs a command")
	ErrUnsupportedExpansion = errors.New("unsupported expansion")
)

var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse reads a node config written as shell assignments without executing it.
//
// Each line is either blank, a comment, `[export ]NAME=VALUE` or `export NAME...`,
// optionally followed by a comment. Values follow POSIX quoting and may reference
// variables assigned earlier in the file or, failing that, variables provided by
// lookup. Anything sh would run, such as `;`, pipes or command substitution, is
// refused.
func Parse(r io.Reader, file string, lookup Lookup) (*NodeConfig, error) {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	config := newNodeConfig(file)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		v, ok, err := parseLine(scanner.Text(), config, lookup)
		if err != nil {
			return nil, ParseError{err, file, line}
		}
		if ok {
			v.Line = line
			config.set(v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	return config, nil
}

func parseLine(text string, config *NodeConfig, lookup Lookup) (Var, bool, error) {
	text = strings.TrimLeft(text, blanks)
	if strings.TrimRight(text, blanks) == "" || strings.HasPrefix(text, "#") {
		return Var{}, false, nil
	}

	exported := false
	if rest, ok := cutKeyword(text, "export"); ok {
		exported = true
		text = rest
	}

	name, raw, hasValue := strings.Cut(text, "=")
	if !hasValue {
		if !exported {
			return Var{}, false, ErrNotAssignment
		}
		return Var{}, false, checkExports(text, config, lookup)
	}

	if !nameRegex.MatchString(name) {
		return Var{}, false, fmt.Errorf("%w '%s'", ErrInvalidName, name)
	}

	value, err := expandValue(raw, func(name string) (string, bool) {
		if value, ok := config.Get(name); ok {
			return value, true
		}
		return lookup(name)
	})
	if err != nil {
		return Var{}, false, fmt.Errorf("%s: %w", name, err)
	}
	return Var{Name: name, Value: value}, true, nil
}

// checkExports validates `export NAME...`: every name must already be set.
func checkExports(text string, config *NodeConfig, lookup Lookup) error {
	words, err := shlex.Split(text, true)
	if err != nil {
		return err
	}
	if _, i, ok := lo.FindIndexOf(words, func(w string) bool { return strings.HasPrefix(w, "#") }); ok {
		words = words[:i]
	}
	if len(words) == 0 {
		return ErrNotAssignment
	}

	for _, name := range words {
		if !nameRegex.MatchString(name) {
			return fmt.Errorf("%w '%s'", ErrInvalidName, name)
		}
		if _, ok := config.Get(name); ok {
			continue
		}
		if _, ok := lookup(name); !ok {
			return fmt.Errorf("%w '%s'", ErrUnknownExport, name)
		}
	}
	return nil
}

func cutKeyword(text string, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(text, keyword)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return text, false
	}
	return strings.TrimLeft(rest, blanks), true
}
