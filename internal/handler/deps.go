package handler

import (
	"fitroom/internal/avatar"
	"fitroom/internal/fit"
	"fitroom/internal/handoff"
)

// Package-level collaborators, wired once from main before the router
// starts serving.
var (
	fitScorer       fit.Scorer
	scoreDispatcher = fit.NewDispatcher()
	captureHub      = handoff.NewHub()
	avatarGenerator avatar.Generator
	publicBaseURL   string
)

func Configure(scorer fit.Scorer, generator avatar.Generator, baseURL string) {
	fitScorer = scorer
	avatarGenerator = generator
	publicBaseURL = baseURL
}

// CaptureHub exposes the hub for tests and for main.
func CaptureHub() *handoff.Hub {
	return captureHub
}
