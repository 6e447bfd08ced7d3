// File path: internal/workflow/prompts.go
package workflow

import (
	"fmt"
	"strings"
)

// Every prompt the workflow sends lives in this file so the boundary
// between free text and typed results stays auditable.

const summaryQuery = "erasmus exchange program requirements deadlines destinations"

func summaryPrompt(institution, context string) string {
	return fmt.Sprintf(`You are an advisor for outgoing Erasmus exchange students.
Using only the excerpts below from the official call published by %s,
summarise the exchange program for a student considering an application.
Cover eligibility, deadlines, language requirements and how destinations
are assigned. Answer in plain prose, no markdown.

Excerpts:
%s`, institution, context)
}

func destinationsPrompt(department, period, studyPlan, section string) string {
	var plan string
	if strings.TrimSpace(studyPlan) != "" {
		plan = fmt.Sprintf("\nThe student's study plan so far: %s\n", studyPlan)
	}
	return fmt.Sprintf(`The text below is the destination table for the %s department,
taken from an official Erasmus call. Columns are separated by "|".
%s
Extract every destination available for the %s semester. Respond with a
JSON array only, no prose and no code fences. Each element must have
these fields: "name", "code", "capacity" (integer), "duration", "level",
"language_requirements", "description". Use an empty string for fields
the table does not provide and 0 for an unknown capacity.

Table:
%s`, department, plan, period, section)
}

func examsPrompt(destination, studyPlan, catalogText string) string {
	return fmt.Sprintf(`A student plans an Erasmus semester at %s. Their study plan lists
these exams: %s.

Below is the course catalog of the destination. Compare the study plan
against it. Respond with a JSON object only, no prose and no code
fences, with exactly these fields:
  "matched_exams": array of {"student_exam", "destination_course",
    "compatibility_tier", "credits_student", "credits_destination",
    "notes"}
  "suggested_exams": array of course names worth taking that have no
    home counterpart
  "compatibility_score": number between 0 and 100
  "analysis_summary": short prose assessment

Course catalog:
%s`, destination, studyPlan, catalogText)
}
