// Command cloudbrowser opens and manages CloudBrowser sessions.
//
// Usage:
//
//	cloudbrowser open --headless --label nightly
//	cloudbrowser launch --url https://example.com --text h1
//	cloudbrowser list
//	cloudbrowser close ws://...
//	cloudbrowser rdp start ws://...
//
// The token is read from CLOUDBROWSER_TOKEN (a .env file in the working
// directory is honored) or --token.
package main
