// Package resume defines the canonical resume data model.
//
// # Overview
//
// A [Resume] is the format-agnostic structure every renderer consumes. It is
// built and edited elsewhere (conversation, upload parsing) and handed to the
// rendering pipeline as an immutable snapshot; nothing in this module mutates
// a Resume it was given.
//
// List order is display order. Nil lists are valid and mean "empty"; the
// planner never distinguishes a nil slice from an empty one.
//
// # Decoding
//
// [Decode] reads JSON or YAML, [Load] picks the codec from a file extension:
//
//	r, err := resume.Load("jane.yaml")
//
// # Validation
//
// [Validate] enforces the boundary contract (non-empty trimmed name, sane
// lengths, score range) with go-playground/validator. [ValidateJSON] checks
// raw request bodies against the embedded JSON Schema before decoding.
package resume

import (
	"encoding/json"
)

// Resume is the canonical resume document.
type Resume struct {
	Name               string              `json:"name" yaml:"name" validate:"required,max=256"`
	ContactLine1       string              `json:"contactLine1" yaml:"contactLine1" validate:"max=512"`
	ContactLine2       string              `json:"contactLine2,omitempty" yaml:"contactLine2,omitempty" validate:"max=512"`
	Education          []Education         `json:"education" yaml:"education" validate:"dive"`
	ExperienceSections []ExperienceSection `json:"experienceSections" yaml:"experienceSections" validate:"dive"`
	AdditionalInfo     []string            `json:"additionalInfo" yaml:"additionalInfo"`
}

// Education is one school entry.
type Education struct {
	Institution string   `json:"institution" yaml:"institution"`
	Location    string   `json:"location" yaml:"location"`
	Degree      string   `json:"degree" yaml:"degree"`
	Date        string   `json:"date" yaml:"date"`
	GPA         string   `json:"gpa,omitempty" yaml:"gpa,omitempty" validate:"max=16"`
	Details     []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// DegreeLine returns the degree with the GPA appended when present.
func (e Education) DegreeLine() string {
	if e.GPA == "" {
		return e.Degree
	}
	return e.Degree + "; GPA: " + e.GPA
}

// ExperienceSection is a named group of entries such as "Experience" or
// "Research Experience". Several sections may coexist.
type ExperienceSection struct {
	Heading string            `json:"heading" yaml:"heading"`
	Entries []ExperienceEntry `json:"entries" yaml:"entries" validate:"dive"`
}

// ExperienceEntry is one organization with the roles held there.
type ExperienceEntry struct {
	Company     string `json:"company" yaml:"company"`
	CompanyNote string `json:"companyNote,omitempty" yaml:"companyNote,omitempty"`
	Location    string `json:"location" yaml:"location"`
	Roles       []Role `json:"roles" yaml:"roles"`
}

// Role is a title held over a date range.
type Role struct {
	Title   string   `json:"title" yaml:"title"`
	Date    string   `json:"date" yaml:"date"`
	Bullets []string `json:"bullets" yaml:"bullets"`
}

// Tailoring is the ephemeral job-match annotation shown over the preview.
// It is produced by an external matching pass and never stored on a Resume.
type Tailoring struct {
	MatchScore int       `json:"matchScore" yaml:"matchScore" validate:"min=0,max=100"`
	Keywords   *Keywords `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Keywords splits job-description keywords by presence in the resume.
type Keywords struct {
	Found   []string `json:"found" yaml:"found"`
	Missing []string `json:"missing" yaml:"missing"`
}

// Canonical returns a stable JSON encoding used for content hashing.
func (r *Resume) Canonical() ([]byte, error) {
	return json.Marshal(r)
}
