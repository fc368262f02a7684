package nodeconfig

import (
	"fmt"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
)

const (
	blanks = " \t\r"
	// Unquoted, these end the assignment and start shell syntax that would run something.
	operators = ";&|<>()`"
)

// expander evaluates the value of an assignment the way sh does, without running
// anything: quotes are removed, $NAME and ${NAME} are expanded outside single quotes,
// and a leading ~ becomes $HOME.
type expander struct {
	src    string
	pos    int
	lookup Lookup
	out    strings.Builder
}

func expandValue(src string, lookup Lookup) (string, error) {
	e := &expander{src: src, lookup: lookup}
	if err := e.word(); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

func (e *expander) word() error {
	if strings.HasPrefix(e.src, "~") {
		if err := e.tilde(); err != nil {
			return err
		}
	}

	for e.pos < len(e.src) {
		c := e.src[e.pos]
		switch {
		case strings.IndexByte(blanks, c) >= 0:
			return e.trailer()
		case c == '\\':
			if e.pos+1 == len(e.src) {
				return shlex.ErrNoEscaped
			}
			e.out.WriteByte(e.src[e.pos+1])
			e.pos += 2
		case c == '\'':
			end := strings.IndexByte(e.src[e.pos+1:], '\'')
			if end < 0 {
				return shlex.ErrNoClosing
			}
			e.out.WriteString(e.src[e.pos+1 : e.pos+1+end])
			e.pos += end + 2
		case c == '"':
			if err := e.doubleQuoted(); err != nil {
				return err
			}
		case c == '$':
			if err := e.dollar(); err != nil {
				return err
			}
		case strings.IndexByte(operators, c) >= 0:
			return fmt.Errorf("%w: unquoted '%c'", ErrCommand, c)
		default:
			e.out.WriteByte(c)
			e.pos++
		}
	}
	return nil
}

// trailer checks what follows the first unquoted blank: only a comment may.
func (e *expander) trailer() error {
	rest := strings.TrimLeft(e.src[e.pos:], blanks)
	switch {
	case rest == "" || rest[0] == '#':
		e.pos = len(e.src)
		return nil
	case e.pos == 0:
		return fmt.Errorf("%w: '%s' follows an empty assignment", ErrCommand, rest)
	default:
		return ErrMultipleWords
	}
}

func (e *expander) doubleQuoted() error {
	e.pos++
	for e.pos < len(e.src) {
		switch c := e.src[e.pos]; c {
		case '"':
			e.pos++
			return nil
		case '\\':
			// Only these keep their backslash special between double quotes
			if e.pos+1 < len(e.src) && strings.IndexByte("$`\"\\", e.src[e.pos+1]) >= 0 {
				e.pos++
			}
			e.out.WriteByte(e.src[e.pos])
			e.pos++
		case '$':
			if err := e.dollar(); err != nil {
				return err
			}
		case '`':
			return fmt.Errorf("%w: command substitution", ErrCommand)
		default:
			e.out.WriteByte(c)
			e.pos++
		}
	}
	return shlex.ErrNoClosing
}

func (e *expander) dollar() error {
	rest := e.src[e.pos+1:]
	switch {
	case strings.HasPrefix(rest, "("):
		return fmt.Errorf("%w: command substitution", ErrCommand)
	case strings.HasPrefix(rest, "{"):
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return fmt.Errorf("%w: missing '}'", ErrUnsupportedExpansion)
		}
		value, err := e.parameter(rest[1:end])
		if err != nil {
			return err
		}
		e.out.WriteString(value)
		e.pos += end + 2
	case rest != "" && isNameStart(rest[0]):
		n := 1
		for n < len(rest) && isNameChar(rest[n]) {
			n++
		}
		value, _ := e.lookup(rest[:n])
		e.out.WriteString(value)
		e.pos += n + 1
	case rest != "" && strings.IndexByte("0123456789@*#?$!-", rest[0]) >= 0:
		return fmt.Errorf("%w '$%c'", ErrUnsupportedExpansion, rest[0])
	default:
		e.out.WriteByte('$')
		e.pos++
	}
	return nil
}

// parameter evaluates the inside of ${...}: NAME, NAME:-word or NAME-word.
// The default word is taken literally.
func (e *expander) parameter(expr string) (string, error) {
	n := 0
	for n < len(expr) && isNameChar(expr[n]) {
		n++
	}
	name, op := expr[:n], expr[n:]
	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("%w '${%s}'", ErrUnsupportedExpansion, expr)
	}

	value, set := e.lookup(name)
	switch {
	case op == "":
		return value, nil
	case strings.HasPrefix(op, ":-"), strings.HasPrefix(op, "-"):
		colon := op[0] == ':'
		word := strings.TrimPrefix(op, ":")[1:]
		if strings.ContainsAny(word, "$`'\"\\{") {
			return "", fmt.Errorf("%w '${%s}'", ErrUnsupportedExpansion, expr)
		}
		if !set || (colon && value == "") {
			return word, nil
		}
		return value, nil
	default:
		return "", fmt.Errorf("%w '${%s}'", ErrUnsupportedExpansion, expr)
	}
}

func (e *expander) tilde() error {
	rest := e.src[1:]
	if rest != "" && rest[0] != '/' && rest[0] != ':' && strings.IndexByte(blanks, rest[0]) < 0 {
		user, _, _ := strings.Cut(rest, "/")
		return fmt.Errorf("%w '~%s'", ErrUnsupportedExpansion, user)
	}

	if home, ok := e.lookup("HOME"); ok {
		e.out.WriteString(home)
	} else {
		e.out.WriteByte('~')
	}
	e.pos = 1
	return nil
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}
