// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

// Package services adapts spinwatch components to suture.Service. Each wrapper
// depends on a small interface instead of the concrete component so the
// supervisor tree does not import the feed or telegram packages.
package services
