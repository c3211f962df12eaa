package models

const (
	// BulletMarkers mark a line as a role candidate.
	BulletMarkers = "-•"
	// RoleSeparatorRegex splits a role title from its trailing description.
	RoleSeparatorRegex = `–|—|\s+-\s+`
	// FenceRegex unwraps a fenced code block around a JSON answer.
	FenceRegex = "(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$"

	ContextSeparator    = "\n\n"
	SearchQueryTemplate = "%s jobs site:%s"
)

var (
	BulletsPromptTemplate = `You are an expert career advisor and resume analyst.
Use the following pieces of a resume to answer the question at the end.
If the resume does not contain enough information, say so instead of making up an answer.

{{.context}}

Question: {{.question}}
List every suggested role on its own line in the form "- Role Title – relevant skills".
Helpful Answer:`

	JSONPromptTemplate = `You are an expert career advisor and resume analyst.
Use the following pieces of a resume to answer the question at the end.

{{.context}}

Question: {{.question}}
Return your response as a valid JSON array of objects. Each object must have exactly two keys:
"title" (a string for the job title) and "reason" (one or two sentences on why it fits, based on the resume).
Do not include any other text outside of the JSON array.
Example format:
[
  {"title": "Software Engineer", "reason": "Strong experience in Go and building web services."},
  {"title": "Data Analyst", "reason": "Experience with SQL and data visualization."}
]`
)
