// Package types provides type definitions for structured data used throughout the resume builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PersonalDetails holds the contact block printed in every template header.
type PersonalDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Experience is a single position in the work history.
type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Current     bool     `json:"current"`
	Description []string `json:"description"`
}

// Education is a single degree entry.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
}

// Project is a portfolio entry.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
	Highlights   []string `json:"highlights"`
}

// Certification is a credential entry.
type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

// SkillCategory groups related skills under a heading.
type SkillCategory struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// ResumeContent is the structured resume data, independent of any visual template.
type ResumeContent struct {
	PersonalDetails PersonalDetails `json:"personalDetails"`
	Summary         string          `json:"summary"`
	Skills          []SkillCategory `json:"skills"`
	Experience      []Experience    `json:"experience"`
	Education       []Education     `json:"education"`
	Projects        []Project       `json:"projects"`
	Certifications  []Certification `json:"certifications"`
}

// Resume is the unit of persistence: one row per resume, owned by a single user.
type Resume struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Title     string        `json:"title"`
	Template  TemplateType  `json:"template"`
	Content   ResumeContent `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DefaultTitle is used when a resume is created without a title.
const DefaultTitle = "Untitled Resume"

// DefaultContent returns empty content with non-nil lists so it serializes as [] rather than null.
func DefaultContent() ResumeContent {
	return ResumeContent{
		Skills:         []SkillCategory{},
		Experience:     []Experience{},
		Education:      []Education{},
		Projects:       []Project{},
		Certifications: []Certification{},
	}
}

// NewID generates an identifier for a list item.
func NewID() string {
	return uuid.NewString()
}

// Normalize replaces nil lists with empty ones and assigns identifiers to items that lack one
// or share one with an earlier sibling in the same list.
func (c *ResumeContent) Normalize() {
	if c.Skills == nil {
		c.Skills = []SkillCategory{}
	}
	if c.Experience == nil {
		c.Experience = []Experience{}
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	if c.Certifications == nil {
		c.Certifications = []Certification{}
	}

	ensureSkills := uniqueIDs()
	for i := range c.Skills {
		ensureSkills(&c.Skills[i].ID)
	}
	ensureExperience := uniqueIDs()
	for i := range c.Experience {
		ensureExperience(&c.Experience[i].ID)
	}
	ensureEducation := uniqueIDs()
	for i := range c.Education {
		ensureEducation(&c.Education[i].ID)
	}
	ensureProjects := uniqueIDs()
	for i := range c.Projects {
		ensureProjects(&c.Projects[i].ID)
	}
	ensureCertifications := uniqueIDs()
	for i := range c.Certifications {
		ensureCertifications(&c.Certifications[i].ID)
	}
}

// uniqueIDs returns a function that replaces empty identifiers and ones already seen in the
// same list. Identifiers only need to be unique within their own section.
func uniqueIDs() func(id *string) {
	seen := make(map[string]bool)
	return func(id *string) {
		if *id == "" || seen[*id] {
			*id = NewID()
		}
		seen[*id] = true
	}
}

// Clone returns a deep copy of the content.
func (c ResumeContent) Clone() ResumeContent {
	out := c
	out.Skills = make([]SkillCategory, len(c.Skills))
	for i, s := range c.Skills {
		s.Skills = slices.Clone(s.Skills)
		out.Skills[i] = s
	}
	out.Experience = make([]Experience, len(c.Experience))
	for i, e := range c.Experience {
		e.Description = slices.Clone(e.Description)
		out.Experience[i] = e
	}
	out.Education = slices.Clone(c.Education)
	if out.Education == nil {
		out.Education = []Education{}
	}
	out.Projects = make([]Project, len(c.Projects))
	for i, p := range c.Projects {
		p.Technologies = slices.Clone(p.Technologies)
		p.Highlights = slices.Clone(p.Highlights)
		out.Projects[i] = p
	}
	out.Certifications = slices.Clone(c.Certifications)
	if out.Certifications == nil {
		out.Certifications = []Certification{}
	}
	return out
}

// ContentPatch carries a partial content update. Only non-nil sections are applied, each
// replacing the whole section.
type ContentPatch struct {
	PersonalDetails *PersonalDetails `json:"personalDetails,omitempty"`
	Summary         *string          `json:"summary,omitempty"`
	Skills          *[]SkillCategory `json:"skills,omitempty"`
	Experience      *[]Experience    `json:"experience,omitempty"`
	Education       *[]Education     `json:"education,omitempty"`
	Projects        *[]Project       `json:"projects,omitempty"`
	Certifications  *[]Certification `json:"certifications,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ContentPatch) IsEmpty() bool {
	return p.PersonalDetails == nil && p.Summary == nil && p.Skills == nil &&
		p.Experience == nil && p.Education == nil && p.Projects == nil && p.Certifications == nil
}

// Merge returns a copy of c with the sections present in p replaced.
func (c ResumeContent) Merge(p ContentPatch) ResumeContent {
	out := c.Clone()
	if p.PersonalDetails != nil {
		out.PersonalDetails = *p.PersonalDetails
	}
	if p.Summary != nil {
		out.Summary = *p.Summary
	}
	if p.Skills != nil {
		out.Skills = slices.Clone(*p.Skills)
	}
	if p.Experience != nil {
		out.Experience = slices.Clone(*p.Experience)
	}
	if p.Education != nil {
		out.Education = slices.Clone(*p.Education)
	}
	if p.Projects != nil {
		out.Projects = slices.Clone(*p.Projects)
	}
	if p.Certifications != nil {
		out.Certifications = slices.Clone(*p.Certifications)
	}
	out.Normalize()
	return out
}
