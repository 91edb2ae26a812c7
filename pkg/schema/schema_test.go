package schema_test

import (
	"testing"

	"github.com/gnames/gnanimal/pkg/dag"
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoo() *schema.Module {
	return &schema.Module{
		Name:     "zoo",
		Requires: []string{"Keeper"},
		Tables: []*entity.Table{
			{
				Name: "Enclosure",
				Tier: entity.Manual,
				Key:  []entity.Field{entity.Ref("Area")},
				Attrs: []entity.Field{
					entity.Ref("Keeper"),
				},
			},
			{
				Name: "Area",
				Tier: entity.Lookup,
				Key:  []entity.Field{entity.Attr("area", entity.Varchar(16))},
				Contents: [][]any{
					{"north"}, {"south"},
				},
			},
		},
	}
}

func aquarium() *schema.Module {
	return &schema.Module{
		Name:     "aquarium",
		Upstream: []string{"zoo"},
		Optional: []string{"Pump"},
		Tables: []*entity.Table{
			{
				Name: "Tank",
				Tier: entity.Manual,
				Key: []entity.Field{
					entity.Ref("zoo.Enclosure"),
					entity.Attr("tank", entity.Int()),
				},
				Attrs: []entity.Field{
					entity.Ref("Pump").WithNull().WithOptional(),
				},
			},
		},
	}
}

func keeper(t *testing.T) *linking.Module {
	res, err := linking.NewBuilder().With("Keeper", "staff", &entity.Table{
		Name:    "Keeper",
		Tier:    entity.Manual,
		SQLName: "keepers",
		Key:     []entity.Field{entity.Attr("keeper_id", entity.Int())},
	}).Build()
	require.NoError(t, err)
	return res
}

func TestCatalog(t *testing.T) {
	cat, err := schema.NewCatalog(zoo(), aquarium())
	require.NoError(t, err)
	assert.Equal(t, []string{"zoo", "aquarium"}, cat.Names())
	assert.Equal(t, []string{"zoo"}, cat.Upstream("aquarium"))

	order, err := cat.ActivationOrder("aquarium")
	require.NoError(t, err)
	assert.Equal(t, []string{"zoo", "aquarium"}, order)

	req, err := cat.Requires("aquarium")
	require.NoError(t, err)
	assert.Equal(t, []string{"Keeper"}, req)

	levels, err := cat.Levels()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"zoo"}, {"aquarium"}}, levels)

	m, ok := cat.Module("zoo")
	require.True(t, ok)
	_, ok = m.Table("Area")
	assert.True(t, ok)
}

func TestCatalogErrors(t *testing.T) {
	_, err := schema.NewCatalog(zoo(), zoo())
	assert.Error(t, err)

	orphan := aquarium()
	_, err = schema.NewCatalog(orphan)
	assert.Error(t, err)

	a := zoo()
	a.Upstream = []string{"aquarium"}
	_, err = schema.NewCatalog(a, aquarium())
	assert.ErrorIs(t, err, dag.ErrCycle)

	bad := zoo()
	bad.Tables = append(bad.Tables, &entity.Table{Name: "Area", Tier: entity.Lookup,
		Key: []entity.Field{entity.Attr("a", entity.Int())}})
	_, err = schema.NewCatalog(bad)
	assert.ErrorIs(t, err, entity.ErrInvalid)
}

func TestResolve(t *testing.T) {
	cat, err := schema.NewCatalog(zoo(), aquarium())
	require.NoError(t, err)

	res, err := cat.Resolve("aquarium",
		map[string]string{"zoo": "z", "aquarium": "aq"}, keeper(t))
	require.NoError(t, err)

	zooTables := res.Tables["zoo"]
	require.Len(t, zooTables, 2)
	assert.Equal(t, "Area", zooTables[0].Name)
	assert.Equal(t, "Enclosure", zooTables[1].Name)

	enc := zooTables[1]
	assert.Equal(t, []string{"area", "keeper_id"}, enc.ColumnNames())
	assert.Equal(t, "staff", enc.ForeignKeys[1].RefSchema)
	assert.Equal(t, "keepers", enc.ForeignKeys[1].RefTable)
	assert.Equal(t, "enclosure_fk2", enc.ForeignKeys[1].Name)

	tank, ok := res.Table("aquarium.Tank")
	require.True(t, ok)
	assert.Equal(t, "aquarium.Tank", tank.QualifiedName())
	assert.Equal(t, []string{"area", "tank"}, tank.ColumnNames())
	assert.Len(t, tank.ForeignKeys, 1)
	assert.Len(t, res.All(), 3)
}

func TestResolveErrors(t *testing.T) {
	cat, err := schema.NewCatalog(zoo(), aquarium())
	require.NoError(t, err)

	_, err = cat.Resolve("aquarium", map[string]string{"aquarium": "aq"}, keeper(t))
	assert.ErrorIs(t, err, schema.ErrSchemaName)

	_, err = cat.Resolve("zoo", map[string]string{"zoo": "z"}, nil)
	assert.ErrorIs(t, err, schema.ErrUnresolved)

	_, err = cat.Resolve("fish", map[string]string{"zoo": "z"}, keeper(t))
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"user"`, schema.QuoteIdent("user"))
	assert.Equal(t, `"a""b"`, schema.QuoteIdent(`a"b`))
}
