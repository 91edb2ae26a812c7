package element

import (
	"github.com/gnames/gnanimal/pkg/schema"
)

// Modules returns all animal modules in declaration order.
func Modules() []*schema.Module {
	return []*schema.Module{
		Subject(),
		Genotyping(),
		Surgery(),
		Injection(),
	}
}

// Catalog returns the catalog of all animal modules.
func Catalog() (*schema.Catalog, error) {
	return schema.NewCatalog(Modules()...)
}
