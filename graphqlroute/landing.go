package graphqlroute

import (
	"html"
	"net/http"
	"strings"
)

const landingPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>GraphQL</title>
</head>
<body>
<h1>GraphQL endpoint</h1>
<p>Send queries to <code>{{endpoint}}</code> with POST <code>application/json</code>
or GET <code>?query=...</code>.</p>
</body>
</html>
`

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (rt *Route) serveLanding(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.ReplaceAll(landingPage, "{{endpoint}}", html.EscapeString(rt.endpoint))))
}
