package entity

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by all validation errors of this package.
var ErrInvalid = errors.New("invalid entity definition")

// Validate checks that the table is a well-formed entity definition.
// Referenced targets are not checked, they are resolved at activation.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalid)
	}
	if !isIdentifier(t.Name) {
		return fmt.Errorf("%w: bad table name %q", ErrInvalid, t.Name)
	}
	if !t.Tier.IsValid() {
		return fmt.Errorf("%w: table %s has unknown tier", ErrInvalid, t.Name)
	}
	if t.Tier == Part {
		return fmt.Errorf("%w: part table %s cannot be declared on its own",
			ErrInvalid, t.Name)
	}
	if len(t.Key) == 0 {
		return fmt.Errorf("%w: table %s has no primary key", ErrInvalid, t.Name)
	}
	if err := t.validateFields(); err != nil {
		return err
	}
	if err := t.validateContents(); err != nil {
		return err
	}

	for _, p := range t.Parts {
		if err := t.validatePart(p); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) validatePart(p *Table) error {
	if p == nil || !isIdentifier(p.Name) {
		return fmt.Errorf("%w: bad part table in %s", ErrInvalid, t.Name)
	}
	if p.Tier != Part {
		return fmt.Errorf("%w: %s.%s must have part tier",
			ErrInvalid, t.Name, p.Name)
	}
	if len(p.Parts) > 0 {
		return fmt.Errorf("%w: part table %s.%s cannot have parts",
			ErrInvalid, t.Name, p.Name)
	}

	var hasMaster bool
	for _, f := range p.Key {
		if r, ok := f.(Reference); ok && r.Target == MasterTarget {
			hasMaster = true
		}
	}
	if !hasMaster {
		return fmt.Errorf("%w: part table %s.%s must reference master in its key",
			ErrInvalid, t.Name, p.Name)
	}
	return p.validateFields()
}

func (t *Table) validateFields() error {
	names := make(map[string]struct{})
	for i, f := range t.Fields() {
		inKey := i < len(t.Key)
		switch v := f.(type) {
		case Attribute:
			if !isIdentifier(v.Name) {
				return fmt.Errorf("%w: bad attribute name %q in %s",
					ErrInvalid, v.Name, t.Name)
			}
			if _, ok := names[v.Name]; ok {
				return fmt.Errorf("%w: duplicate attribute %q in %s",
					ErrInvalid, v.Name, t.Name)
			}
			names[v.Name] = struct{}{}
			if err := v.Type.Validate(); err != nil {
				return fmt.Errorf("%w: attribute %s.%s: %w",
					ErrInvalid, t.Name, v.Name, err)
			}
			if inKey && (v.Nullable || v.HasDefault) {
				return fmt.Errorf("%w: key attribute %s.%s cannot have defaults",
					ErrInvalid, t.Name, v.Name)
			}
		case Reference:
			if v.Target == "" {
				return fmt.Errorf("%w: empty reference in %s", ErrInvalid, t.Name)
			}
			if inKey && (v.Nullable || v.Optional) {
				return fmt.Errorf("%w: key reference %s -> %s cannot be nullable",
					ErrInvalid, t.Name, v.Target)
			}
			if v.Optional && !v.Nullable {
				return fmt.Errorf("%w: optional reference %s -> %s must be nullable",
					ErrInvalid, t.Name, v.Target)
			}
		default:
			return fmt.Errorf("%w: unknown field in %s", ErrInvalid, t.Name)
		}
	}
	return nil
}

func (t *Table) validateContents() error {
	if len(t.Contents) == 0 {
		return nil
	}
	if len(t.References()) > 0 {
		return fmt.Errorf("%w: table %s with references cannot have contents",
			ErrInvalid, t.Name)
	}
	width := len(t.Key) + len(t.Attrs)
	for i, row := range t.Contents {
		if len(row) != width {
			return fmt.Errorf("%w: row %d of %s has %d values, expected %d",
				ErrInvalid, i, t.Name, len(row), width)
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
