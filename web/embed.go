package web

import "embed"

// Templates embeds the HTML layouts, partials and pages.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds static assets.
//
//go:embed static/**/*
var Static embed.FS
