// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package session owns the mutable bot state: the outcome window, the fixed
message publisher, the running flag and the last feed connectivity.

Every mutation goes through a Session method, which holds a single mutex for
its whole duration. The feed task calls HandleBatch synchronously, so a slow
sink push delays the next read rather than queueing batches. Commands from
Telegram or the admin API call Start, Stop, Resize, Reset and Status.

Flow:

	feed.Client --HandleBatch--> Session --Accept--> window.Buffer
	                                    --Compute--> analytics
	                                    --Report---> report.Renderer
	                                    --Push-----> publisher.Publisher
*/
package session
