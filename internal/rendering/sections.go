package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// listOpen starts the label-less list every multi-entry section uses
	listOpen = "\\begin{itemize}[leftmargin=0.15in, label={}]\n"
	// listClose ends a section list
	listClose = "\\end{itemize}\n"

	experienceSeparator    = "    \\vspace{4pt}\n"
	projectSeparator       = "    \\vspace{6pt}\n"
	educationSeparator     = "    \\vspace{4pt}\n"
	certificationSeparator = "    \\vspace{4pt}\n"

	presentToken = `\textbf{Present}`
)

// sectionComment writes the banner comment that precedes each section
func sectionComment(sb *strings.Builder, title string) {
	sb.WriteString("% ============================================================================\n")
	sb.WriteString("% " + title + "\n")
	sb.WriteString("% ============================================================================\n")
}

// joinEntries concatenates rendered entries with a separator between them, never after the last
func joinEntries(entries []string, separator string) string {
	var sb strings.Builder
	for i, entry := range entries {
		sb.WriteString(entry)
		if i < len(entries)-1 {
			sb.WriteString(separator)
		}
	}
	return sb.String()
}

// isBlank reports whether s holds only whitespace
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// formatDateRange renders "start -- end". Dates are opaque strings.
// When current is set the end is always Present, whatever endDate holds.
func formatDateRange(start, end string, current bool) string {
	startText := EscapeLaTeX(strings.TrimSpace(start))
	endText := EscapeLaTeX(strings.TrimSpace(end))
	if current {
		endText = presentToken
	}

	switch {
	case startText == "" && endText == "":
		return ""
	case startText == "":
		return endText
	case endText == "":
		return startText
	default:
		return startText + " -- " + endText
	}
}

// writeBody writes the prioritized entry body: bullets, else description, else nothing
func writeBody(sb *strings.Builder, bullets []string, description string) {
	if escaped := escapeAll(bullets); len(escaped) > 0 {
		sb.WriteString("    \\vspace{-2pt}\n")
		sb.WriteString("    \\begin{itemize}\n")
		for _, bullet := range escaped {
			sb.WriteString("      \\resumeitem{" + bullet + "}\n")
		}
		sb.WriteString("    \\end{itemize}\n")
		return
	}

	if !isBlank(description) {
		sb.WriteString("    \\vspace{2pt}\n")
		sb.WriteString("    {\\small " + EscapeLaTeX(strings.TrimSpace(description)) + "}\n")
	}
}

// renderHeader renders the name and contact block. It is always emitted.
func renderHeader(info types.PersonalInfo) string {
	var sb strings.Builder
	sectionComment(&sb, "HEADER - Contact Information")
	sb.WriteString("\\begin{center}\n")
	sb.WriteString("  {\\Huge\\bfseries\\color{headercolor} " + EscapeLaTeX(strings.TrimSpace(info.FullName)) + "}\\\\[8pt]\n")

	if !isBlank(info.ProfessionalTitle) {
		sb.WriteString("  {\\Large\\color{headercolor} " + EscapeLaTeX(strings.TrimSpace(info.ProfessionalTitle)) + "}\\\\[6pt]\n")
	}

	var contact []string
	if !isBlank(info.Location) {
		contact = append(contact, EscapeLaTeX(strings.TrimSpace(info.Location)))
	}
	if !isBlank(info.Phone) {
		contact = append(contact, EscapeLaTeX(strings.TrimSpace(info.Phone)))
	}
	if !isBlank(info.Email) {
		email := strings.TrimSpace(info.Email)
		contact = append(contact, fmt.Sprintf("\\href{mailto:%s}{%s}", EscapeURL(email), EscapeLaTeX(email)))
	}
	if len(contact) > 0 {
		sb.WriteString("  {\\small " + strings.Join(contact, ` \textbar{} `) + "}\\\\[4pt]\n")
	}

	var social []string
	if !isBlank(info.LinkedIn) {
		social = append(social, fmt.Sprintf("\\href{%s}{LinkedIn}", EscapeURL(info.LinkedIn)))
	}
	if !isBlank(info.Portfolio) {
		social = append(social, fmt.Sprintf("\\href{%s}{Portfolio/Website}", EscapeURL(info.Portfolio)))
	}
	if len(social) > 0 {
		sb.WriteString("  {\\small " + strings.Join(social, ` \textbar{} `) + "}\\\\[2pt]\n")
	}

	sb.WriteString("\\end{center}\n")
	sb.WriteString("\\vspace{-8pt}\n\n")
	return sb.String()
}

// renderSummary renders the professional summary and target line.
// The target line needs a role plus either a summary or a job description.
func renderSummary(target types.TargetRole) string {
	hasSummary := !isBlank(target.GeneratedSummary)
	hasTarget := !isBlank(target.Role) && (hasSummary || !isBlank(target.JobDescription))
	if !hasSummary && !hasTarget {
		return ""
	}

	var sb strings.Builder
	sectionComment(&sb, "PROFESSIONAL SUMMARY")
	sb.WriteString("\\section{Professional Summary}\n")

	if hasSummary {
		sb.WriteString(EscapeLaTeX(strings.TrimSpace(target.GeneratedSummary)) + "\n\n")
	}

	if hasTarget {
		sb.WriteString("\\vspace{2pt}\n")
		sb.WriteString("\\textbf{Target Position:} " + EscapeLaTeX(strings.TrimSpace(target.Role)))
		if !isBlank(target.Company) {
			sb.WriteString(" at " + EscapeLaTeX(strings.TrimSpace(target.Company)))
		}
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// renderSkills renders one labelled line per non-empty skill list
func renderSkills(skills types.Skills) string {
	if skills.IsEmpty() {
		return ""
	}
	type skillLine struct {
		label string
		items []string
	}
	lines := []skillLine{
		{label: "Technical Skills", items: escapeAll(skills.Technical)},
		{label: `Tools \& Technologies`, items: escapeAll(skills.Tools)},
		{label: "Professional Skills", items: escapeAll(skills.Soft)},
	}

	var rendered []string
	for _, line := range lines {
		if len(line.items) == 0 {
			continue
		}
		rendered = append(rendered, "   \\textbf{"+line.label+":} "+strings.Join(line.items, ", "))
	}
	if len(rendered) == 0 {
		return ""
	}

	var sb strings.Builder
	sectionComment(&sb, "CORE COMPETENCIES")
	sb.WriteString("\\section{Core Competencies \\& Technical Skills}\n")
	sb.WriteString(listOpen)
	sb.WriteString("  \\small{\\item{\n")
	sb.WriteString(strings.Join(rendered, " \\\\\n"))
	sb.WriteString("\n  }}\n")
	sb.WriteString(listClose)
	sb.WriteString("\\vspace{-8pt}\n\n")
	return sb.String()
}

// renderExperienceEntry renders a single position
func renderExperienceEntry(exp types.Experience) string {
	var sb strings.Builder
	sb.WriteString("  \\resumesubheading\n")
	sb.WriteString(fmt.Sprintf("    {%s}{%s}\n",
		EscapeLaTeX(strings.TrimSpace(exp.JobTitle)),
		formatDateRange(exp.StartDate, exp.EndDate, exp.Current)))
	sb.WriteString(fmt.Sprintf("    {%s}{%s}\n",
		EscapeLaTeX(strings.TrimSpace(exp.Company)),
		EscapeLaTeX(strings.TrimSpace(exp.Location))))

	if !isBlank(string(exp.Level)) {
		sb.WriteString("    \\vspace{2pt}\n")
		sb.WriteString("    {\\small\\textit{Level: " + EscapeLaTeX(string(exp.Level)) + "}}\n")
	}

	writeBody(&sb, exp.BulletPoints, exp.Description)
	return sb.String()
}

// renderExperience renders the work history in input order
func renderExperience(experience []types.Experience) string {
	if len(experience) == 0 {
		return ""
	}

	entries := make([]string, len(experience))
	for i, exp := range experience {
		entries[i] = renderExperienceEntry(exp)
	}

	var sb strings.Builder
	sectionComment(&sb, "PROFESSIONAL EXPERIENCE")
	sb.WriteString("\\section{Professional Experience}\n")
	sb.WriteString(listOpen)
	sb.WriteString(joinEntries(entries, experienceSeparator))
	sb.WriteString(listClose)
	sb.WriteString("\\vspace{-6pt}\n\n")
	return sb.String()
}

// projectLinks renders the link labels for a project, GitHub first
func projectLinks(links types.ProjectLinks) []string {
	var out []string
	if !isBlank(links.GitHub) {
		out = append(out, fmt.Sprintf("\\href{%s}{\\small GitHub}", EscapeURL(links.GitHub)))
	}
	if !isBlank(links.Live) {
		out = append(out, fmt.Sprintf("\\href{%s}{\\small Live Demo}", EscapeURL(links.Live)))
	}
	if !isBlank(links.Other) {
		out = append(out, fmt.Sprintf("\\href{%s}{\\small View Project}", EscapeURL(links.Other)))
	}
	return out
}

// renderProjectEntry renders a single project
func renderProjectEntry(project types.Project) string {
	var sb strings.Builder
	sb.WriteString("  \\item\n")
	sb.WriteString("    \\textbf{" + EscapeLaTeX(strings.TrimSpace(project.Title)) + "}")
	if links := projectLinks(project.Links); len(links) > 0 {
		sb.WriteString(" -- " + strings.Join(links, ` \textbar{} `))
	}
	sb.WriteString("\n")

	writeBody(&sb, project.BulletPoints, project.Description)

	// Technologies may arrive as a list whose items still hold commas
	if tech := escapeAll(types.NormalizeStrings(project.Technologies)); len(tech) > 0 {
		sb.WriteString("    \\vspace{2pt}\n")
		sb.WriteString("    {\\small\\textit{Technologies:} " + strings.Join(tech, ", ") + "}\n")
	}

	return sb.String()
}

// renderProjects renders the projects section in input order
func renderProjects(projects []types.Project) string {
	if len(projects) == 0 {
		return ""
	}

	entries := make([]string, len(projects))
	for i, project := range projects {
		entries[i] = renderProjectEntry(project)
	}

	var sb strings.Builder
	sectionComment(&sb, `PROJECTS \& KEY ACHIEVEMENTS`)
	sb.WriteString("\\section{Projects \\& Key Achievements}\n")
	sb.WriteString(listOpen)
	sb.WriteString(joinEntries(entries, projectSeparator))
	sb.WriteString(listClose)
	sb.WriteString("\\vspace{-6pt}\n\n")
	return sb.String()
}

// renderEducationEntry renders a single higher-education entry
func renderEducationEntry(edu types.Education) string {
	degree := EscapeLaTeX(strings.TrimSpace(edu.Degree))
	if !isBlank(edu.Specialization) {
		degree += " -- " + EscapeLaTeX(strings.TrimSpace(edu.Specialization))
	}

	var sb strings.Builder
	sb.WriteString("  \\resumesubheading\n")
	sb.WriteString(fmt.Sprintf("    {%s}{%s}\n", degree, formatDateRange(edu.StartYear, edu.EndYear, false)))
	sb.WriteString(fmt.Sprintf("    {%s}{%s}\n",
		EscapeLaTeX(strings.TrimSpace(edu.Institution)),
		EscapeLaTeX(strings.TrimSpace(edu.Location))))

	if !isBlank(edu.Grade) {
		label := "Grade"
		if !isBlank(string(edu.GradeType)) {
			label = EscapeLaTeX(string(edu.GradeType))
		}
		sb.WriteString("    \\vspace{2pt}\n")
		sb.WriteString("    {\\small " + label + ": " + EscapeLaTeX(strings.TrimSpace(edu.Grade)) + "}\n")
	}

	return sb.String()
}

// renderSchoolEntry renders a class X/XII record, or "" when no school is named
func renderSchoolEntry(title string, school types.SchoolRecord) string {
	if isBlank(school.School) {
		return ""
	}

	institution := EscapeLaTeX(strings.TrimSpace(school.School))
	if !isBlank(school.Board) {
		institution += ", " + EscapeLaTeX(strings.TrimSpace(school.Board))
	}

	var sb strings.Builder
	sb.WriteString("  \\item\n")
	sb.WriteString("    \\textbf{" + title + "} \\hfill " + EscapeLaTeX(strings.TrimSpace(school.Year)) + "\\\\\n")
	sb.WriteString("    \\textit{" + institution + "}")
	if !isBlank(school.Percentage) {
		sb.WriteString(" \\hfill " + EscapeLaTeX(strings.TrimSpace(school.Percentage)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// renderEducation renders higher education followed by secondary school records
func renderEducation(education []types.Education, secondary *types.SecondaryEducation) string {
	entries := make([]string, 0, len(education)+2)
	for _, edu := range education {
		entries = append(entries, renderEducationEntry(edu))
	}
	if secondary != nil {
		if entry := renderSchoolEntry("Higher Secondary (Class XII)", secondary.Twelfth); entry != "" {
			entries = append(entries, entry)
		}
		if entry := renderSchoolEntry("Secondary (Class X)", secondary.Tenth); entry != "" {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sectionComment(&sb, "EDUCATION")
	sb.WriteString("\\section{Education}\n")
	sb.WriteString(listOpen)
	sb.WriteString(joinEntries(entries, educationSeparator))
	sb.WriteString(listClose)
	sb.WriteString("\\vspace{-6pt}\n\n")
	return sb.String()
}

// renderCertificationEntry renders a single certification.
// A credential URL takes priority over a bare credential ID.
func renderCertificationEntry(cert types.Certification) string {
	var sb strings.Builder
	sb.WriteString("  \\item\n")
	sb.WriteString("    \\textbf{" + EscapeLaTeX(strings.TrimSpace(cert.Name)) + "}")
	if dates := formatDateRange(cert.IssueDate, cert.ExpiryDate, false); dates != "" {
		sb.WriteString(" \\hfill " + dates)
	}
	sb.WriteString("\\\\\n")

	sb.WriteString("    \\textit{" + EscapeLaTeX(strings.TrimSpace(cert.Organization)) + "}")
	switch {
	case !isBlank(cert.CredentialURL):
		sb.WriteString(" \\hfill \\href{" + EscapeURL(cert.CredentialURL) + "}{\\small View Credential}")
	case !isBlank(cert.CredentialID):
		sb.WriteString(" \\hfill {\\small Credential ID: " + EscapeLaTeX(strings.TrimSpace(cert.CredentialID)) + "}")
	}
	sb.WriteString("\n")
	return sb.String()
}

// renderCertifications renders the certifications section in input order
func renderCertifications(certifications []types.Certification) string {
	if len(certifications) == 0 {
		return ""
	}

	entries := make([]string, len(certifications))
	for i, cert := range certifications {
		entries[i] = renderCertificationEntry(cert)
	}

	var sb strings.Builder
	sectionComment(&sb, `CERTIFICATIONS \& PROFESSIONAL DEVELOPMENT`)
	sb.WriteString("\\section{Certifications \\& Professional Development}\n")
	sb.WriteString(listOpen)
	sb.WriteString(joinEntries(entries, certificationSeparator))
	sb.WriteString(listClose)
	return sb.String()
}
