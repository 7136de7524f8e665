package routes

import (
	"fmt"
	"net/http"
)

// PrivacyPolicyHandler serves the Privacy Policy content
func PrivacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	html := `
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Privacy Policy</title>
	</head>
	<body>
		<h1>Privacy Policy</h1>
		<p>Welcome to Amoria. This Privacy Policy outlines how we collect, use, and protect your data.</p>
		<p>Profile details, likes and matches are stored only to operate the service and are removed when you delete your profile.</p>
		<p>Contact us at <a href="mailto:support@amoria.app">support@amoria.app</a> for questions.</p>
	</body>
	</html>
	`
	fmt.Fprint(w, html)
}
