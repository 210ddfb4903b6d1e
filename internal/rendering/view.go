package rendering

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// NamePlaceholder is printed when the resume has no name yet.
const NamePlaceholder = "Your Name"

// variant captures the per-template differences that are data, not markup.
type variant struct {
	file         string
	present      string
	dateSep      string
	projectLimit int
	upperName    bool
}

var variants = map[types.TemplateType]variant{
	types.TemplateMinimalProfessional: {file: "minimal_professional.html", present: "Present", dateSep: " - "},
	types.TemplateModernClean:         {file: "modern_clean.html", present: "Present", dateSep: " - "},
	types.TemplateTechDeveloper:       {file: "tech_developer.html", present: "present", dateSep: " → "},
	types.TemplateStudentFresher:      {file: "student_fresher.html", present: "Present", dateSep: " - "},
	types.TemplateExecutive:           {file: "executive.html", present: "Present", dateSep: " — ", projectLimit: 3, upperName: true},
}

type view struct {
	Title      string
	Name       string
	Email      string
	Phone      string
	Location   string
	LinkedIn   string
	Website    string
	Summary    string
	Skills     []skillView
	FlatSkills []string
	Experience []experienceView
	Education  []educationView
	Projects   []projectView
	Certs      []certView
}

type skillView struct {
	Name   string
	Skills []string
}

type experienceView struct {
	Position string
	Company  string
	Location string
	Period   string
	Bullets  []string
}

type educationView struct {
	Heading     string
	Degree      string
	Field       string
	Institution string
	Location    string
	Period      string
	EndDate     string
	GPA         string
}

type projectView struct {
	Name         string
	Description  string
	Technologies []string
	Link         string
	Highlights   []string
}

type certView struct {
	Name         string
	Issuer       string
	Date         string
	ExpiryDate   string
	CredentialID string
}

// buildView flattens content into what the layouts print. Blank strings and items with
// nothing to show are dropped so a section header is only emitted when it has content.
func buildView(c types.ResumeContent, v variant) view {
	pd := c.PersonalDetails
	name := strings.TrimSpace(pd.FullName)
	title := name
	if name == "" {
		name = NamePlaceholder
		title = "Resume"
	}
	if v.upperName {
		name = strings.ToUpper(name)
	}

	out := view{
		Title:    title,
		Name:     name,
		Email:    strings.TrimSpace(pd.Email),
		Phone:    strings.TrimSpace(pd.Phone),
		Location: strings.TrimSpace(pd.Location),
		LinkedIn: strings.TrimSpace(pd.LinkedIn),
		Website:  strings.TrimSpace(pd.Website),
		Summary:  strings.TrimSpace(c.Summary),
	}

	for _, cat := range c.Skills {
		skills := nonBlank(cat.Skills)
		if len(skills) == 0 {
			continue
		}
		out.Skills = append(out.Skills, skillView{Name: strings.TrimSpace(cat.Name), Skills: skills})
		out.FlatSkills = append(out.FlatSkills, skills...)
	}

	for _, e := range c.Experience {
		end := strings.TrimSpace(e.EndDate)
		if e.Current {
			end = v.present
		}
		ev := experienceView{
			Position: strings.TrimSpace(e.Position),
			Company:  strings.TrimSpace(e.Company),
			Location: strings.TrimSpace(e.Location),
			Period:   joinNonEmpty(v.dateSep, e.StartDate, end),
			Bullets:  nonBlank(e.Description),
		}
		if ev.Position == "" && ev.Company == "" && ev.Location == "" && ev.Period == "" && len(ev.Bullets) == 0 {
			continue
		}
		out.Experience = append(out.Experience, ev)
	}

	for _, e := range c.Education {
		ev := educationView{
			Degree:      strings.TrimSpace(e.Degree),
			Field:       strings.TrimSpace(e.Field),
			Institution: strings.TrimSpace(e.Institution),
			Location:    strings.TrimSpace(e.Location),
			Period:      joinNonEmpty(" - ", e.StartDate, e.EndDate),
			EndDate:     strings.TrimSpace(e.EndDate),
			GPA:         strings.TrimSpace(e.GPA),
		}
		ev.Heading = joinNonEmpty(" in ", ev.Degree, ev.Field)
		if ev.Heading == "" && ev.Institution == "" && ev.Location == "" && ev.Period == "" && ev.GPA == "" {
			continue
		}
		out.Education = append(out.Education, ev)
	}

	for _, p := range c.Projects {
		if v.projectLimit > 0 && len(out.Projects) == v.projectLimit {
			break
		}
		pv := projectView{
			Name:         strings.TrimSpace(p.Name),
			Description:  strings.TrimSpace(p.Description),
			Technologies: nonBlank(p.Technologies),
			Link:         strings.TrimSpace(p.Link),
			Highlights:   nonBlank(p.Highlights),
		}
		if pv.Name == "" && pv.Description == "" && pv.Link == "" && len(pv.Technologies) == 0 && len(pv.Highlights) == 0 {
			continue
		}
		out.Projects = append(out.Projects, pv)
	}

	for _, cert := range c.Certifications {
		cv := certView{
			Name:         strings.TrimSpace(cert.Name),
			Issuer:       strings.TrimSpace(cert.Issuer),
			Date:         strings.TrimSpace(cert.Date),
			ExpiryDate:   strings.TrimSpace(cert.ExpiryDate),
			CredentialID: strings.TrimSpace(cert.CredentialID),
		}
		if cv.Name == "" && cv.Issuer == "" && cv.Date == "" && cv.CredentialID == "" {
			continue
		}
		out.Certs = append(out.Certs, cv)
	}

	return out
}

// nonBlank returns the trimmed, non-empty entries of list.
func nonBlank(list []string) []string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// joinNonEmpty joins the trimmed, non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonBlank(parts), sep)
}

// wrap surrounds s with pre and post, or returns "" when s is blank.
func wrap(pre, s, post string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return pre + s + post
}
