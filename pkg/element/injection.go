package element

import (
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

var serotypes = []string{
	"AAV1", "AAV2", "AAV4", "AAV5", "AAV6", "AAV7", "AAV8", "AAV9",
	"AAV2/1", "AAV2/5", "AAV2/9", "AAVrg", "AAV/DJ", "pAAV",
}

// Injection declares virus injections done during implantations.
// Device is used only if the linking module provides it.
func Injection() *schema.Module {
	serotypeRows := make([][]any, len(serotypes))
	for i, v := range serotypes {
		serotypeRows[i] = []any{v}
	}

	return &schema.Module{
		Name:     InjectionModule,
		Comment:  "virus injections",
		Upstream: []string{SurgeryModule},
		Requires: LabRequires,
		Optional: []string{linking.Device},
		Tables: []*entity.Table{
			{
				Name:     "VirusSerotype",
				Tier:     entity.Lookup,
				Key:      []entity.Field{entity.Attr("virus_serotype", entity.Varchar(10))},
				Contents: serotypeRows,
			},
			{
				Name: "MicroInjectionDevice",
				Tier: entity.Lookup,
				Key: []entity.Field{
					entity.Attr("micro_injection_device", entity.Varchar(12)),
				},
				Contents: [][]any{{"Nanoject"}, {"Picospritzer"}},
			},
			{
				Name: "InjectionProtocol",
				Tier: entity.Manual,
				Key:  []entity.Field{entity.Attr("protocol_id", entity.Int())},
				Attrs: []entity.Field{
					entity.Ref("MicroInjectionDevice"),
					entity.Attr("volume_per_pulse", entity.Float()),
					entity.Attr("injection_rate", entity.Float()),
					entity.Attr("interpulse_delay", entity.Float()),
					entity.Ref(linking.Device).WithNull().WithOptional().
						WithComment("device used for injection"),
				},
			},
			{
				Name: "VirusName",
				Tier: entity.Manual,
				Key: []entity.Field{
					entity.Attr("virus_name", entity.Varchar(64)).
						WithComment("full virus name, e.g. AAV1.CAG.Flex.ArchT.GFP"),
				},
				Attrs: []entity.Field{entity.Ref("VirusSerotype")},
			},
			{
				Name: "Injection",
				Tier: entity.Manual,
				Key: []entity.Field{
					entity.Ref("surgery.Implantation"),
					entity.Ref("VirusName"),
					entity.Ref("InjectionProtocol"),
				},
				Attrs: []entity.Field{
					entity.Attr("titer", entity.Varchar(16)),
					entity.Attr("total_volume", entity.Float()),
					entity.Attr("injection_comment", entity.Varchar(1024)).WithDefault(""),
				},
			},
		},
	}
}
