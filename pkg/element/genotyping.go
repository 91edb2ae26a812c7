package element

import (
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

// Genotyping declares breeding, litters, caging and genotype tests.
func Genotyping() *schema.Module {
	return &schema.Module{
		Name:     GenotypingModule,
		Comment:  "breeding, caging and genotyping of subjects",
		Upstream: []string{SubjectModule},
		Requires: LabRequires,
		Tables: []*entity.Table{
			{
				Name: "Sequence",
				Tier: entity.Lookup,
				Key: []entity.Field{
					entity.Attr("sequence", entity.Varchar(32)).
						WithComment("abbreviated sequence name"),
				},
				Attrs: []entity.Field{
					entity.Attr("base_pairs", entity.Varchar(1024)).WithDefault("").
						WithComment("base pairs"),
					entity.Attr("sequence_desc", entity.Varchar(255)).WithDefault("").
						WithComment("description"),
				},
			},
			{
				Name: "AlleleSequence",
				Tier: entity.Lookup,
				Key: []entity.Field{
					entity.Ref("subject.Allele"),
					entity.Ref("Sequence"),
				},
			},
			breedingPair(),
			{
				Name:    "Litter",
				Tier:    entity.Manual,
				Comment: "litter information",
				Key: []entity.Field{
					entity.Ref("BreedingPair"),
					entity.Attr("litter_birth_date", entity.Date()),
				},
				Attrs: []entity.Field{
					entity.Attr("num_of_pups", entity.TinyInt()),
					entity.Attr("litter_notes", entity.Varchar(255)).WithDefault("").
						WithComment("notes"),
				},
			},
			{
				Name:    "Weaning",
				Tier:    entity.Manual,
				Comment: "weaning information",
				Key:     []entity.Field{entity.Ref("Litter")},
				Attrs: []entity.Field{
					entity.Attr("weaning_date", entity.Date()),
					entity.Attr("num_of_male", entity.TinyInt()),
					entity.Attr("num_of_female", entity.TinyInt()),
					entity.Attr("weaning_notes", entity.Varchar(255)).WithDefault(""),
				},
			},
			{
				Name:  "SubjectLitter",
				Tier:  entity.Manual,
				Key:   []entity.Field{entity.Ref("subject.Subject")},
				Attrs: []entity.Field{entity.Ref("Litter")},
			},
			{
				Name: "Cage",
				Tier: entity.Lookup,
				Key: []entity.Field{
					entity.Attr("cage", entity.Varchar(32)).
						WithComment("cage identifying info"),
				},
				Attrs: []entity.Field{
					entity.Attr("cage_purpose", entity.Varchar(128)).WithDefault("").
						WithComment("cage purpose"),
				},
			},
			{
				Name:    "SubjectCaging",
				Tier:    entity.Manual,
				Comment: "record of animal caging",
				Key: []entity.Field{
					entity.Ref("subject.Subject"),
					entity.Attr("caging_datetime", entity.Datetime()).
						WithComment("date of cage entry"),
				},
				Attrs: []entity.Field{
					entity.Ref("Cage"),
					entity.Ref(linking.User).
						WithComment("person associated with the cage transfer"),
				},
			},
			{
				Name: "GenotypeTest",
				Tier: entity.Manual,
				Key: []entity.Field{
					entity.Ref("subject.Subject"),
					entity.Ref("Sequence"),
					entity.Attr("genotype_test_id", entity.Varchar(32)).
						WithComment("identifier of a genotype test"),
				},
				Attrs: []entity.Field{
					entity.Attr("test_result", entity.Enum("Present", "Absent")).
						WithComment("test result"),
				},
			},
		},
	}
}

func breedingPair() *entity.Table {
	return &entity.Table{
		Name: "BreedingPair",
		Tier: entity.Manual,
		Key: []entity.Field{
			entity.Ref("subject.Line"),
			entity.Attr("breeding_pair", entity.Varchar(32)),
		},
		Attrs: []entity.Field{
			entity.Attr("bp_start_date", entity.Date()).WithNull(),
			entity.Attr("bp_end_date", entity.Date()).WithNull(),
			entity.Attr("bp_description", entity.Varchar(2048)).WithDefault(""),
		},
		Parts: []*entity.Table{
			{
				Name:  "Father",
				Tier:  entity.Part,
				Key:   []entity.Field{entity.Ref(entity.MasterTarget)},
				Attrs: []entity.Field{entity.Ref("subject.Subject")},
			},
			{
				Name: "Mother",
				Tier: entity.Part,
				Key: []entity.Field{
					entity.Ref(entity.MasterTarget),
					entity.Ref("subject.Subject"),
				},
			},
		},
	}
}
