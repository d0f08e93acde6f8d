package executor

import (
	"reflect"
	"strconv"
	"strings"
)

// Path locates a value in the response: field names and list indices.
type Path []PathElement

type PathElement any

func pathToString(path Path) string {
	var b strings.Builder
	for i, elem := range path {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func appendPath(path Path, elem PathElement) Path {
	newPath := make(Path, len(path)+1)
	copy(newPath, path)
	newPath[len(path)] = elem
	return newPath
}

// markNullifiedPrefix tombstones p. The empty path nulls the whole
// response data.
func (s *executionState) markNullifiedPrefix(p Path) {
	if len(p) == 0 {
		s.dataNulled = true
		return
	}
	s.nullifiedPrefix[pathToString(p)] = struct{}{}
}

func (s *executionState) hasNullifiedPrefix(p Path) bool {
	if s.dataNulled {
		return true
	}
	if len(s.nullifiedPrefix) == 0 {
		return false
	}
	for i := 1; i <= len(p); i++ {
		if _, ok := s.nullifiedPrefix[pathToString(p[:i])]; ok {
			return true
		}
	}
	return false
}

func (s *executionState) markNonNull(p Path) {
	s.nonNullPaths[pathToString(p)] = struct{}{}
}

// nearestNullable returns the closest proper ancestor of p that may hold
// null, or the empty path when every ancestor down to the root fields is
// Non-Null.
func (s *executionState) nearestNullable(p Path) Path {
	for i := len(p) - 1; i > 0; i-- {
		if _, nonNull := s.nonNullPaths[pathToString(p[:i])]; !nonNull {
			return p[:i]
		}
	}
	return Path{}
}

// propagateNull nulls the nearest nullable ancestor of a Non-Null value at p
// and prunes everything queued beneath it.
func (s *executionState) propagateNull(responseRoot map[string]any, p Path) {
	target := s.nearestNullable(p)
	s.markNullifiedPrefix(target)
	setValueAtPath(responseRoot, target, nil)
}

// hasErrorAtPath reports whether an error with the given path already exists.
func (s *executionState) hasErrorAtPath(path Path) bool {
	for _, err := range s.errors {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

// setValueAtPath writes value into the response tree. Nothing is written
// below an ancestor that is missing or null.
func setValueAtPath(responseRoot map[string]any, path Path, value any) {
	if len(path) == 0 {
		return
	}
	current := any(responseRoot)
	for _, elem := range path[:len(path)-1] {
		switch e := elem.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return
			}
			next, exists := m[e]
			if !exists || next == nil {
				// an ancestor was nulled; keep it null
				return
			}
			current = next
		case int:
			slice, ok := current.([]any)
			if !ok || e >= len(slice) || slice[e] == nil {
				return
			}
			current = slice[e]
		}
	}
	switch fe := path[len(path)-1].(type) {
	case string:
		if m, ok := current.(map[string]any); ok {
			m[fe] = value
		}
	case int:
		if slice, ok := current.([]any); ok && fe < len(slice) {
			slice[fe] = value
		}
	}
}
