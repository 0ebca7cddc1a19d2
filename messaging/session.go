// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Session is an authenticated platform session for one bot account.
// Sessions are lightweight: a pointer to the shared Client plus the
// account's token and username.
type Session struct {
	client   *Client
	username string
	token    string
}

// Username returns the bot account's username.
func (s *Session) Username() string { return s.username }

// CreateRoom creates a new room. The response's group id is the
// platform's stable identifier for it; a 2xx response without one is
// treated as an error, since nothing can be done with such a room.
func (s *Session) CreateRoom(ctx context.Context, request CreateRoomRequest) (*CreateRoomResponse, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/v1/rooms", s.token, request, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: create room failed: %w", err)
	}

	var response CreateRoomResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: parsing create room response: %w", err)
	}
	if response.GroupID == "" {
		return nil, fmt.Errorf("messaging: create room response missing group id")
	}

	s.client.logger.Info("created room",
		"group_id", response.GroupID,
		"title", request.Title,
		"owner", request.Owner,
	)
	return &response, nil
}

// Room fetches one room's details by group id.
func (s *Session) Room(ctx context.Context, groupID string) (*RoomInfo, error) {
	path := "/v1/rooms/" + url.PathEscape(groupID)
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.token, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: get room %q failed: %w", groupID, err)
	}

	var response RoomInfo
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: parsing room response: %w", err)
	}
	return &response, nil
}

// Rooms fetches the full list of rooms the bot currently belongs to.
// A 2xx response without the rooms field violates the platform
// contract and is returned as an error so callers treat the whole
// fetch as failed rather than mistaking it for an empty list.
func (s *Session) Rooms(ctx context.Context) ([]RoomInfo, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/v1/rooms", s.token, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: list rooms failed: %w", err)
	}

	var response RoomsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: parsing rooms response: %w", err)
	}
	if response.Rooms == nil {
		return nil, fmt.Errorf("messaging: rooms response missing rooms field")
	}
	return *response.Rooms, nil
}

// AddMembers adds users to a room.
func (s *Session) AddMembers(ctx context.Context, groupID string, members []string) error {
	path := "/v1/rooms/" + url.PathEscape(groupID) + "/members"
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.token, UpdateMembersRequest{
		Members: members,
	}, nil)
	if err != nil {
		return fmt.Errorf("messaging: adding members to %q failed: %w", groupID, err)
	}
	return nil
}

// LeaveRoom removes the bot from a room.
func (s *Session) LeaveRoom(ctx context.Context, groupID string) error {
	path := "/v1/rooms/" + url.PathEscape(groupID) + "/leave"
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.token, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("messaging: leaving room %q failed: %w", groupID, err)
	}
	return nil
}

// SendToRoom posts text into a room, optionally with quick-reply
// buttons.
func (s *Session) SendToRoom(ctx context.Context, groupID, text string, opts *MessageOptions) error {
	path := "/v1/rooms/" + url.PathEscape(groupID) + "/messages"
	if err := s.send(ctx, path, text, opts); err != nil {
		return fmt.Errorf("messaging: sending to room %q failed: %w", groupID, err)
	}
	return nil
}

// SendToUser sends text directly to a user, optionally with
// quick-reply buttons.
func (s *Session) SendToUser(ctx context.Context, user, text string, opts *MessageOptions) error {
	path := "/v1/users/" + url.PathEscape(user) + "/messages"
	if err := s.send(ctx, path, text, opts); err != nil {
		return fmt.Errorf("messaging: sending to user %q failed: %w", user, err)
	}
	return nil
}

func (s *Session) send(ctx context.Context, path, text string, opts *MessageOptions) error {
	request := sendRequest{
		Text: text,
		// Client-generated so the platform can de-duplicate retries.
		TransactionID: uuid.NewString(),
	}
	if opts != nil {
		request.Buttons = opts.Buttons
	}
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.token, request, nil)
	return err
}

// Messages long-polls the bot's inbox for inbound command messages.
func (s *Session) Messages(ctx context.Context, options MessagesOptions) (*MessagesResponse, error) {
	query := url.Values{}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if options.Timeout > 0 {
		query.Set("timeout", strconv.Itoa(options.Timeout))
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, "/v1/messages", s.token, nil, query)
	if err != nil {
		return nil, fmt.Errorf("messaging: fetching messages failed: %w", err)
	}

	var response MessagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: parsing messages response: %w", err)
	}
	return &response, nil
}
