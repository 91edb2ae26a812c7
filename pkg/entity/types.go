package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is a family of attribute types.
type Kind int

const (
	UnknownKind Kind = iota
	VarcharKind
	EnumKind
	DateKind
	DatetimeKind
	BoolKind
	TinyIntKind
	IntKind
	FloatKind
	DecimalKind
)

// Type is the type of an attribute.
type Type struct {
	Kind Kind

	// Size is the length of varchar or the precision of decimal.
	Size int

	// Scale of decimal.
	Scale int

	// Values of enum.
	Values []string
}

// Varchar creates a varchar(n) type.
func Varchar(n int) Type { return Type{Kind: VarcharKind, Size: n} }

// Enum creates an enum type with the given values.
func Enum(vals ...string) Type { return Type{Kind: EnumKind, Values: vals} }

// Date creates a date type.
func Date() Type { return Type{Kind: DateKind} }

// Datetime creates a datetime type.
func Datetime() Type { return Type{Kind: DatetimeKind} }

// Bool creates a boolean type.
func Bool() Type { return Type{Kind: BoolKind} }

// TinyInt creates a tinyint type.
func TinyInt() Type { return Type{Kind: TinyIntKind} }

// Int creates an int type.
func Int() Type { return Type{Kind: IntKind} }

// Float creates a float type.
func Float() Type { return Type{Kind: FloatKind} }

// Decimal creates a decimal(precision, scale) type.
func Decimal(precision, scale int) Type {
	return Type{Kind: DecimalKind, Size: precision, Scale: scale}
}

// String returns the declaration form of the type.
func (t Type) String() string {
	switch t.Kind {
	case VarcharKind:
		return fmt.Sprintf("varchar(%d)", t.Size)
	case EnumKind:
		vals := make([]string, len(t.Values))
		for i, v := range t.Values {
			vals[i] = "'" + v + "'"
		}
		return "enum(" + strings.Join(vals, ", ") + ")"
	case DateKind:
		return "date"
	case DatetimeKind:
		return "datetime"
	case BoolKind:
		return "boolean"
	case TinyIntKind:
		return "tinyint"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case DecimalKind:
		return fmt.Sprintf("decimal(%d, %d)", t.Size, t.Scale)
	default:
		return "unknown"
	}
}

// Validate checks that type parameters make sense.
func (t Type) Validate() error {
	switch t.Kind {
	case VarcharKind:
		if t.Size <= 0 {
			return fmt.Errorf("varchar size must be positive, got %d", t.Size)
		}
	case EnumKind:
		if len(t.Values) == 0 {
			return fmt.Errorf("enum needs at least one value")
		}
		for _, v := range t.Values {
			if v == "" || strings.ContainsRune(v, '\'') {
				return fmt.Errorf("enum value %q is not allowed", v)
			}
		}
	case DecimalKind:
		if t.Size <= 0 || t.Scale < 0 || t.Scale > t.Size {
			return fmt.Errorf("decimal(%d, %d) is not valid", t.Size, t.Scale)
		}
	case DateKind, DatetimeKind, BoolKind, TinyIntKind, IntKind, FloatKind:
	default:
		return fmt.Errorf("unknown attribute type")
	}
	return nil
}

// ParseType parses a type declaration such as "varchar(32)",
// "enum('M', 'F')" or "decimal(6, 3)".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	name, args, hasArgs := strings.Cut(s, "(")
	// enum values keep their case
	name = strings.ToLower(strings.TrimSpace(name))
	if hasArgs {
		if !strings.HasSuffix(args, ")") {
			return Type{}, fmt.Errorf("cannot parse type %q", s)
		}
		args = strings.TrimSuffix(args, ")")
	}

	var res Type
	switch name {
	case "varchar":
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return Type{}, fmt.Errorf("cannot parse varchar size in %q: %w", s, err)
		}
		res = Varchar(n)
	case "enum":
		var vals []string
		for _, v := range strings.Split(args, ",") {
			v = strings.TrimSpace(v)
			v = strings.Trim(v, `'"`)
			vals = append(vals, v)
		}
		res = Enum(vals...)
	case "decimal", "numeric":
		p, sc, _ := strings.Cut(args, ",")
		precision, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Type{}, fmt.Errorf("cannot parse decimal precision in %q: %w", s, err)
		}
		var scale int
		if strings.TrimSpace(sc) != "" {
			scale, err = strconv.Atoi(strings.TrimSpace(sc))
			if err != nil {
				return Type{}, fmt.Errorf("cannot parse decimal scale in %q: %w", s, err)
			}
		}
		res = Decimal(precision, scale)
	case "date":
		res = Date()
	case "datetime", "timestamp":
		res = Datetime()
	case "boolean", "bool":
		res = Bool()
	case "tinyint":
		res = TinyInt()
	case "int", "integer":
		res = Int()
	case "float", "real":
		res = Float()
	default:
		return Type{}, fmt.Errorf("unknown type %q", s)
	}

	if err := res.Validate(); err != nil {
		return Type{}, err
	}
	return res, nil
}
