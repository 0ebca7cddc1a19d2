// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the chat platform's REST API for the room
// bot's needs: creating rooms, reading the bot's room list, changing
// membership, leaving rooms, and sending text (optionally with
// quick-reply buttons) to rooms and users.
//
// [Client] holds the platform URL and HTTP transport. [Session] wraps
// a Client with the bot's API token and username for authenticated
// calls. All API errors come back as [*PlatformError] carrying the
// platform error code and HTTP status; [IsPlatformError] tests for a
// specific code.
//
// Inbound command messages arrive through [Session.Messages], a
// long-poll inbox endpoint. [RunInboxLoop] drives it continuously
// with exponential backoff on transient errors, handing each
// [Message] to a handler until the context is cancelled.
//
// Outbound sends carry a client-generated transaction ID so the
// platform can de-duplicate retries.
package messaging
