package types

import (
	"encoding/json"
	"fmt"
)

// Section names a list section of ResumeContent that holds identified items.
type Section string

// List sections that support item-level editing
const (
	SectionSkills         Section = "skills"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// Sections lists every editable list section.
var Sections = []Section{SectionSkills, SectionExperience, SectionEducation, SectionProjects, SectionCertifications}

// ParseSection validates a section name taken from a request path.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", &UnknownSectionError{Section: s}
}

// UnknownSectionError is returned for a section name that has no item list.
type UnknownSectionError struct {
	Section string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section: %s", e.Section)
}

// ItemNotFoundError is returned when no item in a section carries the requested identifier.
type ItemNotFoundError struct {
	Section Section
	ID      string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s item not found: %s", e.Section, e.ID)
}

// ItemDecodeError wraps a malformed item payload.
type ItemDecodeError struct {
	Section Section
	Cause   error
}

func (e *ItemDecodeError) Error() string {
	return fmt.Sprintf("invalid %s item: %v", e.Section, e.Cause)
}

func (e *ItemDecodeError) Unwrap() error {
	return e.Cause
}

// indexByID returns the position of the item with the given id, or -1.
func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// removeByID drops exactly the item with the given id, preserving the order of the rest.
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	i := indexByID(items, id, idOf)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out, true
}

// replaceByID swaps in item at the position of id.
func replaceByID[T any](items []T, id string, item T, idOf func(T) string) ([]T, bool) {
	i := indexByID(items, id, idOf)
	if i < 0 {
		return items, false
	}
	out := make([]T, len(items))
	copy(out, items)
	out[i] = item
	return out, true
}

func decodeItem[T any](section Section, raw json.RawMessage) (T, error) {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, &ItemDecodeError{Section: section, Cause: err}
	}
	return item, nil
}

func skillID(s SkillCategory) string { return s.ID }
func expID(e Experience) string      { return e.ID }
func eduID(e Education) string       { return e.ID }
func projID(p Project) string        { return p.ID }
func certID(c Certification) string  { return c.ID }

// AddItem decodes raw as an item of section, assigns it a fresh identifier and appends it.
// The new identifier is returned.
func (c *ResumeContent) AddItem(section Section, raw json.RawMessage) (string, error) {
	id := NewID()
	switch section {
	case SectionSkills:
		item, err := decodeItem[SkillCategory](section, raw)
		if err != nil {
			return "", err
		}
		item.ID = id
		if item.Skills == nil {
			item.Skills = []string{}
		}
		c.Skills = append(c.Skills, item)
	case SectionExperience:
		item, err := decodeItem[Experience](section, raw)
		if err != nil {
			return "", err
		}
		item.ID = id
		if item.Description == nil {
			item.Description = []string{}
		}
		c.Experience = append(c.Experience, item)
	case SectionEducation:
		item, err := decodeItem[Education](section, raw)
		if err != nil {
			return "", err
		}
		item.ID = id
		c.Education = append(c.Education, item)
	case SectionProjects:
		item, err := decodeItem[Project](section, raw)
		if err != nil {
			return "", err
		}
		item.ID = id
		if item.Technologies == nil {
			item.Technologies = []string{}
		}
		if item.Highlights == nil {
			item.Highlights = []string{}
		}
		c.Projects = append(c.Projects, item)
	case SectionCertifications:
		item, err := decodeItem[Certification](section, raw)
		if err != nil {
			return "", err
		}
		item.ID = id
		c.Certifications = append(c.Certifications, item)
	default:
		return "", &UnknownSectionError{Section: string(section)}
	}
	return id, nil
}

// ReplaceItem overwrites the item with the given id, keeping its identifier and position.
func (c *ResumeContent) ReplaceItem(section Section, id string, raw json.RawMessage) error {
	var ok bool
	switch section {
	case SectionSkills:
		item, err := decodeItem[SkillCategory](section, raw)
		if err != nil {
			return err
		}
		item.ID = id
		c.Skills, ok = replaceByID(c.Skills, id, item, skillID)
	case SectionExperience:
		item, err := decodeItem[Experience](section, raw)
		if err != nil {
			return err
		}
		item.ID = id
		c.Experience, ok = replaceByID(c.Experience, id, item, expID)
	case SectionEducation:
		item, err := decodeItem[Education](section, raw)
		if err != nil {
			return err
		}
		item.ID = id
		c.Education, ok = replaceByID(c.Education, id, item, eduID)
	case SectionProjects:
		item, err := decodeItem[Project](section, raw)
		if err != nil {
			return err
		}
		item.ID = id
		c.Projects, ok = replaceByID(c.Projects, id, item, projID)
	case SectionCertifications:
		item, err := decodeItem[Certification](section, raw)
		if err != nil {
			return err
		}
		item.ID = id
		c.Certifications, ok = replaceByID(c.Certifications, id, item, certID)
	default:
		return &UnknownSectionError{Section: string(section)}
	}
	if !ok {
		return &ItemNotFoundError{Section: section, ID: id}
	}
	return nil
}

// RemoveItem deletes exactly the item with the given id from section.
func (c *ResumeContent) RemoveItem(section Section, id string) error {
	var ok bool
	switch section {
	case SectionSkills:
		c.Skills, ok = removeByID(c.Skills, id, skillID)
	case SectionExperience:
		c.Experience, ok = removeByID(c.Experience, id, expID)
	case SectionEducation:
		c.Education, ok = removeByID(c.Education, id, eduID)
	case SectionProjects:
		c.Projects, ok = removeByID(c.Projects, id, projID)
	case SectionCertifications:
		c.Certifications, ok = removeByID(c.Certifications, id, certID)
	default:
		return &UnknownSectionError{Section: string(section)}
	}
	if !ok {
		return &ItemNotFoundError{Section: section, ID: id}
	}
	return nil
}
