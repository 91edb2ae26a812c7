// Package nwb keeps the subject descriptor of Neurodata Without Borders
// files.
package nwb

import "time"

// Subject describes an experimental subject the way NWB expects it.
type Subject struct {
	// SubjectID is the identifier of the subject.
	SubjectID string `json:"subject_id" yaml:"subject_id"`

	// Sex is "M", "F" or "U".
	Sex string `json:"sex" yaml:"sex"`

	// DateOfBirth is the birth date at midnight UTC.
	DateOfBirth time.Time `json:"date_of_birth" yaml:"date_of_birth"`

	// Description is a JSON object with all known fields of the subject.
	Description string `json:"description" yaml:"description"`

	// Species is the species of the line as stored, trimmed. Empty if
	// the subject has no line.
	Species string `json:"species" yaml:"species"`

	// Genotype lists alleles of the line of the subject joined by " x ".
	Genotype string `json:"genotype" yaml:"genotype"`
}
