// Package entity provides declarations of relational entities: tables with
// tiers, key and secondary fields, part tables and lookup contents.
// The package is pure, declarations carry no database state.
package entity

import (
	"strings"
	"unicode"
)

// Tier determines the role of a table in the data pipeline.
type Tier int

const (
	// UnknownTier is the zero value, it is never valid.
	UnknownTier Tier = iota
	// Manual tables are filled by people or by import tools.
	Manual
	// Lookup tables keep small controlled vocabularies, often with
	// predefined contents.
	Lookup
	// Imported tables are filled from external data.
	Imported
	// Computed tables are filled from other tables.
	Computed
	// Part tables exist only together with a row in their master table.
	Part
)

var tierNames = map[Tier]string{
	Manual:   "manual",
	Lookup:   "lookup",
	Imported: "imported",
	Computed: "computed",
	Part:     "part",
}

// String returns the name of the tier.
func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsValid returns true for known tiers.
func (t Tier) IsValid() bool {
	_, ok := tierNames[t]
	return ok
}

// Field is either an Attribute or a Reference.
type Field interface {
	isField()
}

// Attribute is a column declared directly by a table.
type Attribute struct {
	// Name of the column.
	Name string

	// Type of the column.
	Type Type

	// Default is a literal default value. It is used only if HasDefault
	// is true.
	Default string

	// HasDefault is true if the attribute has a default value.
	HasDefault bool

	// Nullable attributes accept NULL and default to it.
	Nullable bool

	// Comment describes the attribute.
	Comment string
}

func (Attribute) isField() {}

// Attr creates an attribute with the given name and type.
func Attr(name string, typ Type) Attribute {
	return Attribute{Name: name, Type: typ}
}

// WithDefault sets a literal default value.
func (a Attribute) WithDefault(v string) Attribute {
	a.Default = v
	a.HasDefault = true
	return a
}

// WithNull makes the attribute nullable.
func (a Attribute) WithNull() Attribute {
	a.Nullable = true
	return a
}

// WithComment sets the comment of the attribute.
func (a Attribute) WithComment(c string) Attribute {
	a.Comment = c
	return a
}

// Reference is a foreign key to another table. The referencing table
// inherits the primary key attributes of the target.
type Reference struct {
	// Target names the referenced table. It can be a table of the same
	// module ("Strain"), a table of an upstream module
	// ("subject.Subject"), the master of a part table ("master"), or a
	// name supplied by a linking module ("User").
	Target string

	// Rename gives new names to the inherited key attributes,
	// positionally. Empty means the target names are kept.
	Rename []string

	// Nullable references can be left empty. Only allowed for secondary
	// fields.
	Nullable bool

	// Optional references are skipped when their target is an optional
	// linking entity that was not supplied.
	Optional bool

	// Comment describes the reference.
	Comment string
}

func (Reference) isField() {}

// MasterTarget is the Target used by part tables to reference their master.
const MasterTarget = "master"

// Ref creates a reference to the target.
func Ref(target string) Reference {
	return Reference{Target: target}
}

// As renames inherited key attributes positionally.
func (r Reference) As(names ...string) Reference {
	r.Rename = names
	return r
}

// WithNull makes the reference nullable.
func (r Reference) WithNull() Reference {
	r.Nullable = true
	return r
}

// WithOptional marks the reference as optional.
func (r Reference) WithOptional() Reference {
	r.Optional = true
	return r
}

// WithComment sets the comment of the reference.
func (r Reference) WithComment(c string) Reference {
	r.Comment = c
	return r
}

// Module returns the module part of a qualified target, or an empty
// string for unqualified targets.
func (r Reference) Module() string {
	if i := strings.LastIndex(r.Target, "."); i > 0 {
		return r.Target[:i]
	}
	return ""
}

// TableRef returns the table part of the target.
func (r Reference) TableRef() string {
	if i := strings.LastIndex(r.Target, "."); i > 0 {
		return r.Target[i+1:]
	}
	return r.Target
}

// Table is a declaration of a relational table.
type Table struct {
	// Name is a CamelCase name of the table, for example "SubjectDeath".
	Name string

	// Tier of the table.
	Tier Tier

	// Comment describes the table.
	Comment string

	// SQLName overrides the table name in the database. If empty the
	// name is a snake_case version of Name.
	SQLName string

	// Key contains the fields of the primary key.
	Key []Field

	// Attrs contains secondary fields.
	Attrs []Field

	// Parts are tables that belong to this table.
	Parts []*Table

	// Contents are predefined rows of lookup tables. Each row has a value
	// for every attribute, key attributes first.
	Contents [][]any
}

// TableName returns the database name of the table, without the master
// prefix for part tables.
func (t *Table) TableName() string {
	if t.SQLName != "" {
		return t.SQLName
	}
	return SnakeCase(t.Name)
}

// Part returns a part table by its name.
func (t *Table) Part(name string) (*Table, bool) {
	for _, p := range t.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Fields returns key fields followed by secondary fields.
func (t *Table) Fields() []Field {
	res := make([]Field, 0, len(t.Key)+len(t.Attrs))
	res = append(res, t.Key...)
	res = append(res, t.Attrs...)
	return res
}

// References returns all references of the table in declaration order.
func (t *Table) References() []Reference {
	var res []Reference
	for _, f := range t.Fields() {
		if r, ok := f.(Reference); ok {
			res = append(res, r)
		}
	}
	return res
}

// SnakeCase converts a CamelCase name to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
