// Package automation drives a remote session over the DevTools protocol.
//
// The service hands out a WebSocket address on Open; Connect attaches a
// chromedp context to it and Launch does both in one step. Only a thin
// surface is exposed here; callers needing more can use Context with
// chromedp directly.
package automation
