package element

import (
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

// Surgery declares implantations of devices into brain regions.
func Surgery() *schema.Module {
	coord := func(name, comment string) entity.Attribute {
		return entity.Attr(name, entity.Decimal(6, 3)).WithComment(comment)
	}

	return &schema.Module{
		Name:     SurgeryModule,
		Comment:  "surgical implantations",
		Upstream: []string{SubjectModule},
		Requires: LabRequires,
		Tables: []*entity.Table{
			{
				Name:    "CoordinateReference",
				Tier:    entity.Lookup,
				Comment: "coordinate reference system",
				Key:     []entity.Field{entity.Attr("reference", entity.Varchar(60))},
				Contents: [][]any{
					{"bregma"}, {"lambda"}, {"dura"},
					{"skull_surface"}, {"sagittal_suture"}, {"sinus"},
				},
			},
			{
				Name:    "BrainRegion",
				Tier:    entity.Manual,
				Comment: "brain region of a given surgery",
				Key: []entity.Field{
					entity.Attr("region_acronym", entity.Varchar(32)).
						WithComment("brain region shorthand"),
				},
				Attrs: []entity.Field{
					entity.Attr("region_name", entity.Varchar(128)).
						WithComment("brain region full name"),
				},
			},
			{
				Name:    "Hemisphere",
				Tier:    entity.Lookup,
				Comment: "brain region hemisphere",
				Key: []entity.Field{
					entity.Attr("hemisphere", entity.Varchar(8)).
						WithComment("brain region hemisphere"),
				},
				Contents: [][]any{{"left"}, {"right"}, {"middle"}},
			},
			{
				Name:    "ImplantationType",
				Tier:    entity.Lookup,
				Comment: "type of implantation",
				Key: []entity.Field{
					entity.Attr("implant_type", entity.Varchar(16)).
						WithComment("short name for type of implanted device"),
				},
				Attrs: []entity.Field{
					entity.Attr("implant_description", entity.Varchar(32)).
						WithComment("full description for implanted device"),
				},
				Contents: [][]any{
					{"ephys", "electophysiology"},
					{"fiber", "fiber photometry"},
					{"opto", "optogenetic pertubation"},
				},
			},
			{
				Name:    "Implantation",
				Tier:    entity.Manual,
				Comment: "implantation of a device",
				Key: []entity.Field{
					entity.Ref("subject.Subject"),
					entity.Attr("implant_date", entity.Datetime()).
						WithComment("surgery date"),
					entity.Ref("ImplantationType"),
					entity.Ref("BrainRegion").
						WithComment("targeted brain region for this implantation"),
					entity.Ref("Hemisphere").
						WithComment("targeted hemisphere for this implantation"),
				},
				Attrs: []entity.Field{
					entity.Ref(linking.User).As("surgeon").WithComment("surgeon"),
					coord("ap", "(um) anterior-posterior; ref is 0"),
					entity.Ref("CoordinateReference").As("ap_ref"),
					coord("ml", "(um) medial axis; ref is 0"),
					entity.Ref("CoordinateReference").As("ml_ref"),
					coord("dv", "(um) dorso-ventral axis; ventral negative"),
					entity.Ref("CoordinateReference").As("dv_ref"),
					coord("theta", "(deg) rot about ml-axis [0, 180] wrt z").WithNull(),
					coord("phi", "(deg) rot about dv-axis [0, 360] wrt x").WithNull(),
					coord("beta", "(deg) rot about shank [-180, 180] wrt anterior").
						WithNull(),
				},
			},
		},
	}
}
