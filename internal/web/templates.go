package web

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Resume Job Role Finder</title>
</head>
<body>
<h1>Resume Job Role Finder (with Apply Links)</h1>

<form method="post" action="/analyze" enctype="multipart/form-data">
  <p><label>Gemini API key <input type="password" name="api_key" autocomplete="off"></label></p>
  <p><label>Resume (PDF) <input type="file" name="resume" accept=".pdf,.docx,.txt"></label></p>
  <p><button type="submit">Analyze</button></p>
</form>

{{with .Info}}<p class="info">{{.}}</p>{{end}}
{{with .Error}}<p class="error">{{.}}</p>{{end}}

{{if .Result}}
<h2>Suggested Roles</h2>
<p class="success">Roles identified!</p>
<div class="answer">{{.Answer}}</div>

<h2>Apply Links</h2>
{{range .Result.Jobs}}
  {{if .Err}}
  <p class="error">Failed to fetch jobs for {{.Role}}: {{.Err}}</p>
  {{else if .Links}}
  <p><strong>{{.Role}}</strong></p>
  <ul>
    {{range .Links}}<li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></li>{{end}}
  </ul>
  {{else}}
  <p>No jobs found for: {{.Role}}</p>
  {{end}}
{{end}}
{{end}}
</body>
</html>
`
