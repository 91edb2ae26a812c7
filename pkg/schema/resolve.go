package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gnanimal/pkg/dag"
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/linking"
)

var (
	// ErrUnresolved is returned when a reference target cannot be found.
	ErrUnresolved = errors.New("unresolved reference")

	// ErrSchemaName is returned when a module has no database schema name.
	ErrSchemaName = errors.New("missing database schema name")
)

// Column is a resolved column of a table.
type Column struct {
	Name       string
	Type       entity.Type
	Nullable   bool
	Default    string
	HasDefault bool
	Comment    string

	// InKey is true for primary key columns.
	InKey bool
}

// ForeignKey is a resolved reference.
type ForeignKey struct {
	// Name of the constraint.
	Name string

	Columns    []string
	RefSchema  string
	RefTable   string
	RefColumns []string

	// RefTypes are types of referenced columns.
	RefTypes []entity.Type
}

// Table is a resolved table, ready to be turned into DDL.
type Table struct {
	// Module is the name of the module the table belongs to.
	Module string

	// Name is the declared name, "Master.Part" for part tables.
	Name string

	Tier    entity.Tier
	Comment string

	// DBSchema is the database schema of the table.
	DBSchema string

	// SQLName is the name of the table inside of DBSchema.
	SQLName string

	// Columns in declaration order, key columns first.
	Columns []Column

	// PrimaryKey contains names of key columns.
	PrimaryKey []string

	ForeignKeys []ForeignKey

	// Contents are predefined rows, values follow Columns.
	Contents [][]any
}

// QualifiedName returns the module-qualified name, like
// "subject.Subject.Line".
func (t *Table) QualifiedName() string {
	return t.Module + "." + t.Name
}

// FullSQLName returns the quoted schema-qualified name of the table.
func (t *Table) FullSQLName() string {
	return QuoteIdent(t.DBSchema) + "." + QuoteIdent(t.SQLName)
}

// Column finds a column by its name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns names of all columns.
func (t *Table) ColumnNames() []string {
	res := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		res[i] = c.Name
	}
	return res
}

// QuoteIdent quotes a PostgreSQL identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Resolved contains resolved tables of a module and its upstream modules.
type Resolved struct {
	// Order is the activation order of modules.
	Order []string

	// Schemas maps module names to database schema names.
	Schemas map[string]string

	// Tables maps module names to their tables in creation order.
	Tables map[string][]*Table
}

// Table finds a table by its qualified name, for example
// "subject.Subject.Line".
func (r *Resolved) Table(qualified string) (*Table, bool) {
	mod, name, ok := strings.Cut(qualified, ".")
	if !ok {
		return nil, false
	}
	for _, t := range r.Tables[mod] {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// All returns tables of all modules in activation and creation order.
func (r *Resolved) All() []*Table {
	var res []*Table
	for _, m := range r.Order {
		res = append(res, r.Tables[m]...)
	}
	return res
}

// Resolve resolves tables of the module and of its upstream modules.
// Schemas must provide a database schema name for every module in the
// activation order. References to linking entities are resolved with
// the link module.
func (c *Catalog) Resolve(
	name string,
	schemas map[string]string,
	link *linking.Module,
) (*Resolved, error) {
	order, err := c.ActivationOrder(name)
	if err != nil {
		return nil, err
	}

	res := &Resolved{
		Order:   order,
		Schemas: make(map[string]string, len(order)),
		Tables:  make(map[string][]*Table, len(order)),
	}
	for _, v := range order {
		s := schemas[v]
		if s == "" {
			return nil, fmt.Errorf("%w: module %s", ErrSchemaName, v)
		}
		res.Schemas[v] = s
	}

	for _, v := range order {
		m, _ := c.Module(v)
		r := resolver{
			module:   m,
			dbSchema: res.Schemas[v],
			link:     link,
			upstream: res,
			done:     make(map[string]*Table),
		}
		tables, err := r.resolve()
		if err != nil {
			return nil, err
		}
		res.Tables[v] = tables
	}
	return res, nil
}

type resolver struct {
	module   *Module
	dbSchema string
	link     *linking.Module
	upstream *Resolved
	done     map[string]*Table
}

// resolve returns tables of the module in creation order.
func (r *resolver) resolve() ([]*Table, error) {
	order, err := r.creationOrder()
	if err != nil {
		return nil, err
	}

	res := make([]*Table, 0, len(order))
	for _, id := range order {
		t, err := r.resolveTable(id)
		if err != nil {
			return nil, err
		}
		r.done[id] = t
		res = append(res, t)
	}
	return res, nil
}

// creationOrder sorts local tables so that every table comes after the
// tables it references.
func (r *resolver) creationOrder() ([]string, error) {
	g := dag.New[*entity.Table]()
	var ids []string
	for _, t := range r.module.Tables {
		g.AddNode(t.Name, t)
		ids = append(ids, t.Name)
		for _, p := range t.Parts {
			id := t.Name + "." + p.Name
			g.AddNode(id, p)
			ids = append(ids, id)
		}
	}

	for _, t := range r.module.Tables {
		if err := r.addLocalEdges(g, t.Name, t); err != nil {
			return nil, err
		}
		for _, p := range t.Parts {
			if err := r.addLocalEdges(g, t.Name+"."+p.Name, p); err != nil {
				return nil, err
			}
		}
	}

	res, err := g.TopologicalSort(ids...)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", r.module.Name, err)
	}
	return res, nil
}

func (r *resolver) addLocalEdges(g *dag.Graph[*entity.Table], id string, t *entity.Table) error {
	master, _, isPart := strings.Cut(id, ".")
	for _, ref := range t.References() {
		var parent string
		switch {
		case ref.Target == entity.MasterTarget && isPart:
			parent = master
		case ref.Module() == "" && g.Has(ref.Target):
			parent = ref.Target
		default:
			continue
		}
		if err := g.AddEdge(parent, id); err != nil {
			return fmt.Errorf("module %s: %w", r.module.Name, err)
		}
	}
	return nil
}

func (r *resolver) resolveTable(id string) (*Table, error) {
	decl, _ := r.module.Table(id)
	masterName, _, isPart := strings.Cut(id, ".")

	res := &Table{
		Module:   r.module.Name,
		Name:     id,
		Tier:     decl.Tier,
		Comment:  decl.Comment,
		DBSchema: r.dbSchema,
		SQLName:  decl.TableName(),
		Contents: decl.Contents,
	}
	if isPart {
		master, _ := r.module.Table(masterName)
		res.SQLName = partSQLName(master, decl)
	}

	for i, f := range decl.Fields() {
		inKey := i < len(decl.Key)
		switch v := f.(type) {
		case entity.Attribute:
			col := Column{
				Name:       v.Name,
				Type:       v.Type,
				Nullable:   v.Nullable,
				Default:    v.Default,
				HasDefault: v.HasDefault,
				Comment:    v.Comment,
				InKey:      inKey,
			}
			if err := res.addColumn(col, false); err != nil {
				return nil, err
			}
		case entity.Reference:
			target, skip, err := r.target(v, masterName, isPart)
			if err != nil {
				return nil, err
			}
			if skip {
				continue
			}
			if err := res.addReference(v, target, inKey); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// refTarget is what a reference points to: schema, table and its primary
// key columns.
type refTarget struct {
	schema  string
	table   string
	columns []Column
}

func (r *resolver) target(ref entity.Reference, master string, isPart bool) (refTarget, bool, error) {
	name := ref.Target
	if name == entity.MasterTarget {
		if !isPart {
			return refTarget{}, false, fmt.Errorf(
				"%w: only part tables can reference master", ErrUnresolved)
		}
		name = master
	}

	if mod := ref.Module(); mod != "" {
		if mod == r.module.Name {
			name = ref.TableRef()
		} else {
			if !slices.Contains(r.upstream.Order, mod) ||
				r.upstream.Tables[mod] == nil {
				return refTarget{}, false, fmt.Errorf(
					"%w: %s references %s outside of upstream modules",
					ErrUnresolved, r.module.Name, ref.Target)
			}
			t, ok := r.upstream.Table(ref.Target)
			if !ok {
				return refTarget{}, false, fmt.Errorf(
					"%w: %s in module %s", ErrUnresolved, ref.Target, r.module.Name)
			}
			return fromTable(t), false, nil
		}
	}

	if t, ok := r.done[name]; ok {
		return fromTable(t), false, nil
	}

	if e, ok := r.link.Entity(name); ok {
		return fromLinking(e), false, nil
	}

	if ref.Optional && slices.Contains(r.module.Optional, name) {
		return refTarget{}, true, nil
	}
	return refTarget{}, false, fmt.Errorf(
		"%w: %s in module %s", ErrUnresolved, ref.Target, r.module.Name)
}

func fromTable(t *Table) refTarget {
	res := refTarget{schema: t.DBSchema, table: t.SQLName}
	for _, c := range t.Columns {
		if c.InKey {
			res.columns = append(res.columns, c)
		}
	}
	return res
}

func fromLinking(e linking.Entity) refTarget {
	res := refTarget{schema: e.Schema, table: e.Table.TableName()}
	for _, f := range e.Table.Key {
		if a, ok := f.(entity.Attribute); ok {
			res.columns = append(res.columns, Column{Name: a.Name, Type: a.Type})
		}
	}
	return res
}

func (t *Table) addReference(ref entity.Reference, target refTarget, inKey bool) error {
	if len(ref.Rename) > len(target.columns) {
		return fmt.Errorf("%w: %s renames more columns than %s has",
			entity.ErrInvalid, t.Name, ref.Target)
	}

	fk := ForeignKey{
		Name:      fmt.Sprintf("%s_fk%d", t.SQLName, len(t.ForeignKeys)+1),
		RefSchema: target.schema,
		RefTable:  target.table,
	}
	for i, c := range target.columns {
		name := c.Name
		if i < len(ref.Rename) && ref.Rename[i] != "" {
			name = ref.Rename[i]
		}
		col := Column{
			Name:     name,
			Type:     c.Type,
			Nullable: ref.Nullable,
			Comment:  ref.Comment,
			InKey:    inKey,
		}
		if err := t.addColumn(col, true); err != nil {
			return err
		}
		fk.Columns = append(fk.Columns, name)
		fk.RefColumns = append(fk.RefColumns, c.Name)
		fk.RefTypes = append(fk.RefTypes, c.Type)
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return nil
}

// addColumn appends a column. Columns inherited from several references
// are merged if their types match.
func (t *Table) addColumn(col Column, inherited bool) error {
	for i, c := range t.Columns {
		if c.Name != col.Name {
			continue
		}
		if !inherited || c.Type.String() != col.Type.String() {
			return fmt.Errorf("%w: column %s of %s is declared twice",
				entity.ErrInvalid, col.Name, t.Name)
		}
		if col.InKey && !c.InKey {
			t.Columns[i].InKey = true
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
		return nil
	}

	t.Columns = append(t.Columns, col)
	if col.InKey {
		t.PrimaryKey = append(t.PrimaryKey, col.Name)
	}
	return nil
}
