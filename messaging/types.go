// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

// CreateRoomRequest holds parameters for creating a room. The
// platform makes every name in Moderators a moderator of the new
// room; the bot passes the creating user for both roles so they can
// manage the room immediately.
type CreateRoomRequest struct {
	Title      string   `json:"title"`
	Owner      string   `json:"owner"`
	Moderators []string `json:"moderators"`
}

// CreateRoomResponse is returned by CreateRoom. GroupID is the
// platform's stable identifier for the new room.
type CreateRoomResponse struct {
	GroupID string `json:"group_id"`
}

// MemberRef is one entry of a room's member or moderator list as the
// platform reports it.
type MemberRef struct {
	Name string `json:"name"`
}

// RoomInfo is one room in the platform's room list.
type RoomInfo struct {
	GroupID     string      `json:"group_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Members     []MemberRef `json:"members"`
	Moderators  []MemberRef `json:"moderators"`
}

// MemberNames flattens a platform member list to plain usernames.
func MemberNames(refs []MemberRef) []string {
	names := make([]string, len(refs))
	for index, ref := range refs {
		names[index] = ref.Name
	}
	return names
}

// RoomsResponse is returned by Rooms. The Rooms field is a pointer so
// a response body that omits the field entirely — a platform contract
// violation — is distinguishable from an empty list.
type RoomsResponse struct {
	Rooms *[]RoomInfo `json:"rooms"`
}

// UpdateMembersRequest adds users to a room. The platform has no
// removal semantics on this endpoint.
type UpdateMembersRequest struct {
	Members []string `json:"members"`
}

// Button is a quick-reply action attached to an outbound message: the
// label shown to the user and the command text sent back when tapped.
type Button struct {
	Text    string `json:"text"`
	Command string `json:"command"`
}

// MessageOptions carries optional interactive properties for an
// outbound message.
type MessageOptions struct {
	Buttons []Button `json:"buttons,omitempty"`
}

// sendRequest is the wire form of an outbound message. TransactionID
// is client-generated so the platform can de-duplicate retries.
type sendRequest struct {
	Text          string   `json:"text"`
	TransactionID string   `json:"transaction_id"`
	Buttons       []Button `json:"buttons,omitempty"`
}

// Message is one inbound message from the platform's inbox. Receiver
// is the bot's own username when the message was sent directly to the
// bot (a one-to-one conversation) and empty when it arrived in a
// room; GroupID identifies the conversation in both cases.
type Message struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	GroupID  string `json:"group_id"`
	Receiver string `json:"receiver,omitempty"`
	Text     string `json:"text"`
}

// Direct reports whether the message was sent to the bot one-to-one
// rather than into a room.
func (m Message) Direct() bool { return m.Receiver != "" }

// MessagesOptions controls the inbox long-poll.
type MessagesOptions struct {
	// Since is the cursor from the previous response; empty starts
	// at the current end of the inbox.
	Since string

	// Timeout is the long-poll timeout in milliseconds; 0 returns
	// immediately.
	Timeout int
}

// MessagesResponse is returned by Messages. Next is the cursor to
// pass as Since on the following call.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
	Next     string    `json:"next"`
}
