package types

// TemplateType identifies one of the fixed visual layouts.
type TemplateType string

// Template identifiers as stored in the resumes.template column
const (
	TemplateMinimalProfessional TemplateType = "minimal-professional"
	TemplateModernClean         TemplateType = "modern-clean"
	TemplateTechDeveloper       TemplateType = "tech-developer"
	TemplateStudentFresher      TemplateType = "student-fresher"
	TemplateExecutive           TemplateType = "executive"
)

// DefaultTemplate is assigned to new resumes and used when an identifier is not recognized.
const DefaultTemplate = TemplateMinimalProfessional

// TemplateOption describes a template for selection UIs.
type TemplateOption struct {
	Value       TemplateType `json:"value"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

// TemplateOptions lists every template in display order.
var TemplateOptions = []TemplateOption{
	{Value: TemplateMinimalProfessional, Label: "Minimal Professional", Description: "Clean and simple design for any industry"},
	{Value: TemplateModernClean, Label: "Modern Clean", Description: "Contemporary layout with clear sections"},
	{Value: TemplateTechDeveloper, Label: "Tech Developer", Description: "Optimized for technical roles and skills"},
	{Value: TemplateStudentFresher, Label: "Student / Fresher", Description: "Perfect for entry-level candidates"},
	{Value: TemplateExecutive, Label: "Executive", Description: "Sophisticated design for senior roles"},
}

// Valid reports whether t is one of the known template identifiers.
func (t TemplateType) Valid() bool {
	for _, opt := range TemplateOptions {
		if opt.Value == t {
			return true
		}
	}
	return false
}

// OrDefault returns t when valid, DefaultTemplate otherwise.
func (t TemplateType) OrDefault() TemplateType {
	if t.Valid() {
		return t
	}
	return DefaultTemplate
}
