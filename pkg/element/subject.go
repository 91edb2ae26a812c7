// Package element declares the animal modules: subject, genotyping,
// surgery and injection.
package element

import (
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

// Module names.
const (
	SubjectModule    = "subject"
	GenotypingModule = "genotyping"
	SurgeryModule    = "surgery"
	InjectionModule  = "injection"
)

// LabRequires are linking entities every module needs.
var LabRequires = []string{
	linking.Lab, linking.User, linking.Protocol, linking.Source,
}

// Subject declares animals, their strains, alleles and genetic lines.
func Subject() *schema.Module {
	return &schema.Module{
		Name:     SubjectModule,
		Comment:  "animal subjects, strains, alleles and genetic lines",
		Requires: LabRequires,
		Tables: []*entity.Table{
			strain(),
			allele(),
			line(),
			subject(),
			subjectDeath(),
			subjectCull(),
			zygosity(),
		},
	}
}

func strain() *entity.Table {
	return &entity.Table{
		Name:    "Strain",
		Tier:    entity.Lookup,
		Comment: "strain of animal, e.g. C57Bl/6",
		Key: []entity.Field{
			entity.Attr("strain", entity.Varchar(32)).
				WithComment("abbreviated strain name"),
		},
		Attrs: []entity.Field{
			entity.Attr("strain_standard_name", entity.Varchar(32)).
				WithComment("formal name of a strain"),
			entity.Attr("strain_desc", entity.Varchar(255)).WithDefault("").
				WithComment("description of this strain"),
		},
	}
}

func allele() *entity.Table {
	return &entity.Table{
		Name: "Allele",
		Tier: entity.Lookup,
		Key: []entity.Field{
			entity.Attr("allele", entity.Varchar(32)).
				WithComment("abbreviated allele name"),
		},
		Attrs: []entity.Field{
			entity.Attr("allele_standard_name", entity.Varchar(255)).
				WithDefault("").WithComment("standard name of an allele"),
		},
		Parts: []*entity.Table{
			{
				Name: "Source",
				Tier: entity.Part,
				Key:  []entity.Field{entity.Ref(entity.MasterTarget)},
				Attrs: []entity.Field{
					entity.Ref(linking.Source),
					entity.Attr("source_identifier", entity.Varchar(255)).
						WithDefault("").WithComment("id inside the line provider"),
					entity.Attr("source_url", entity.Varchar(255)).
						WithDefault("").WithComment("link to the line information"),
					entity.Attr("expression_data_url", entity.Varchar(255)).
						WithDefault("").
						WithComment("link to the expression pattern from Allen institute brain atlas"),
				},
			},
		},
	}
}

func line() *entity.Table {
	return &entity.Table{
		Name: "Line",
		Tier: entity.Lookup,
		Key: []entity.Field{
			entity.Attr("line", entity.Varchar(32)).
				WithComment("abbreviated name for the line"),
		},
		Attrs: []entity.Field{
			entity.Attr("species", entity.Varchar(64)).WithDefault("").
				WithComment("latin name preferred for NWB export"),
			entity.Attr("line_description", entity.Varchar(2000)).WithDefault(""),
			entity.Attr("target_phenotype", entity.Varchar(255)).WithDefault(""),
			entity.Attr("is_active", entity.Bool()).
				WithComment("whether the line is in active breeding"),
		},
		Parts: []*entity.Table{
			{
				Name: "Allele",
				Tier: entity.Part,
				Key: []entity.Field{
					entity.Ref(entity.MasterTarget),
					entity.Ref("Allele"),
				},
			},
		},
	}
}

func subject() *entity.Table {
	return &entity.Table{
		Name:    "Subject",
		Tier:    entity.Manual,
		Comment: "animal subject",
		Key: []entity.Field{
			entity.Attr("subject", entity.Varchar(8)),
		},
		Attrs: []entity.Field{
			entity.Attr("sex", entity.Enum("M", "F", "U")),
			entity.Attr("subject_birth_date", entity.Date()),
			entity.Attr("subject_description", entity.Varchar(1024)).WithDefault(""),
		},
		Parts: []*entity.Table{
			{
				Name: "Protocol",
				Tier: entity.Part,
				Key: []entity.Field{
					entity.Ref(entity.MasterTarget),
					entity.Ref(linking.Protocol),
				},
			},
			{
				Name:    "User",
				Tier:    entity.Part,
				Comment: "individual responsible for subject management",
				Key: []entity.Field{
					entity.Ref(entity.MasterTarget),
					entity.Ref(linking.User),
				},
			},
			{
				Name:  "Line",
				Tier:  entity.Part,
				Key:   []entity.Field{entity.Ref(entity.MasterTarget)},
				Attrs: []entity.Field{entity.Ref("Line")},
			},
			{
				Name:  "Strain",
				Tier:  entity.Part,
				Key:   []entity.Field{entity.Ref(entity.MasterTarget)},
				Attrs: []entity.Field{entity.Ref("Strain")},
			},
			{
				Name:  "Source",
				Tier:  entity.Part,
				Key:   []entity.Field{entity.Ref(entity.MasterTarget)},
				Attrs: []entity.Field{entity.Ref(linking.Source)},
			},
			{
				Name: "Species",
				Tier: entity.Part,
				Key:  []entity.Field{entity.Ref(entity.MasterTarget)},
				Attrs: []entity.Field{
					entity.Attr("species", entity.Varchar(64)).
						WithComment("latin name of the species of the subject"),
				},
			},
			{
				Name: "Lab",
				Tier: entity.Part,
				Key: []entity.Field{
					entity.Ref(entity.MasterTarget),
					entity.Ref(linking.Lab),
				},
				Attrs: []entity.Field{
					entity.Attr("subject_alias", entity.Varchar(32)).WithDefault("").
						WithComment("alias of the subject in this lab, if different from the id"),
				},
			},
		},
	}
}

func subjectDeath() *entity.Table {
	return &entity.Table{
		Name: "SubjectDeath",
		Tier: entity.Manual,
		Key:  []entity.Field{entity.Ref("Subject")},
		Attrs: []entity.Field{
			entity.Attr("death_date", entity.Date()).WithComment("death date"),
		},
	}
}

func subjectCull() *entity.Table {
	return &entity.Table{
		Name: "SubjectCull",
		Tier: entity.Manual,
		Key:  []entity.Field{entity.Ref("SubjectDeath")},
		Attrs: []entity.Field{
			entity.Attr("cull_method", entity.Varchar(255)),
		},
	}
}

func zygosity() *entity.Table {
	return &entity.Table{
		Name: "Zygosity",
		Tier: entity.Manual,
		Key: []entity.Field{
			entity.Ref("Subject"),
			entity.Ref("Allele"),
		},
		Attrs: []entity.Field{
			entity.Attr("zygosity",
				entity.Enum("Present", "Absent", "Homozygous", "Heterozygous")),
		},
	}
}
