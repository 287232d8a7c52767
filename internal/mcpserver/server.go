// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes one notepad view as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notepad/internal/notepad"
)

const snapshotURI = "notepad://view"

// Server wraps the MCP server with notepad tools.
type Server struct {
	mcp *server.MCPServer
	ctl *notepad.Controller

	// calls runs tool calls one at a time so each result reports only the
	// toasts its own call raised.
	calls sync.Mutex

	mu     sync.Mutex
	toasts []notepad.Toast
}

// New creates an MCP server over a controller built from gw and opts.
// Toasts raised by the controller are returned in tool results.
func New(gw notepad.Gateway, opts ...notepad.Option) *Server {
	s := &Server{}
	s.ctl = notepad.New(gw, append(opts, notepad.WithNotifier(s))...)

	s.mcp = server.NewMCPServer(
		"Notepad",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("Reload and list the notes of the configured view, newest first."),
	), s.serial(s.listNotes))

	if s.ctl.Capabilities().CreateNotes {
		s.mcp.AddTool(mcp.NewTool("add_note",
			mcp.WithDescription("Add a note to the current record."),
			mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
		), s.serial(s.addNote))
	}

	s.mcp.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the text of a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID from list_notes")),
		mcp.WithString("text", mcp.Required(), mcp.Description("New note text")),
	), s.serial(s.editNote))

	s.mcp.AddTool(mcp.NewTool("toggle_complete",
		mcp.WithDescription("Mark a note complete, or incomplete if it already is."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID from list_notes")),
	), s.serial(s.toggleComplete))

	s.mcp.AddTool(mcp.NewTool("toggle_reminder",
		mcp.WithDescription("Subscribe the current user to reminders for a note, or unsubscribe."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID from list_notes")),
	), s.serial(s.toggleReminder))

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note. The first call asks for confirmation; "+
			"call again with confirm=true to delete, or cancel=true to keep the note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID from list_notes")),
		mcp.WithBoolean("confirm", mcp.Description("Confirm a pending deletion")),
		mcp.WithBoolean("cancel", mcp.Description("Cancel a pending deletion")),
	), s.serial(s.deleteNote))

	s.mcp.AddResource(
		mcp.NewResource(snapshotURI, "Notepad view",
			mcp.WithResourceDescription("Current state of the notepad view as JSON."),
			mcp.WithMIMEType("application/json"),
		),
		s.readSnapshotResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Controller returns the controller behind the tools.
func (s *Server) Controller() *notepad.Controller {
	return s.ctl
}

// Notify implements notepad.Notifier.
func (s *Server) Notify(t notepad.Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, t)
}

func (s *Server) takeToasts() []notepad.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}

func (s *Server) serial(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.calls.Lock()
		defer s.calls.Unlock()
		s.takeToasts()
		return h(ctx, req)
	}
}

// result turns the outcome of a controller call into a tool result. The
// first toast of the call describes the action itself; later error toasts,
// such as a failed follow-up reload, are appended as notes.
func (s *Server) result(err error, fallback string) *mcp.CallToolResult {
	toasts := s.takeToasts()

	msg := fallback
	if err != nil {
		msg = err.Error()
	}
	if len(toasts) > 0 {
		outcome := toasts[0]
		toasts = toasts[1:]
		switch {
		case err == nil:
			msg = outcome.Message
		case outcome.Variant == notepad.ToastError:
			msg = fmt.Sprintf("%s %s", outcome.Message, err.Error())
		}
	}
	for _, t := range toasts {
		if t.Variant == notepad.ToastError {
			msg += "\nNote: " + t.Message
		}
	}

	if err != nil {
		return mcp.NewToolResultError(msg)
	}
	return mcp.NewToolResultText(msg)
}

// noteSummary is the tool-facing view of a note.
type noteSummary struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	HasReminder bool   `json:"has_reminder"`
	IsOwner     bool   `json:"is_owner,omitempty"`
	Created     string `json:"created,omitempty"`
	Due         string `json:"due,omitempty"`
	Company     string `json:"company,omitempty"`
	RecordLink  string `json:"record_link,omitempty"`
}

func summarize(views []notepad.NoteView) []noteSummary {
	out := make([]noteSummary, len(views))
	for i, v := range views {
		out[i] = noteSummary{
			ID:          v.ID,
			Text:        v.Text,
			Completed:   v.IsCompleted,
			HasReminder: v.HasReminder,
			IsOwner:     v.IsOwner,
			Created:     v.CreatedDisplay,
			Due:         v.DueDisplay,
			Company:     v.CompanyName,
			RecordLink:  v.RelatedRecordLink,
		}
	}
	return out
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.ctl.Load(ctx); err != nil {
		return s.result(err, ""), nil
	}
	s.takeToasts()
	out, _ := json.MarshalIndent(summarize(s.ctl.Snapshot().Notes), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ctl.SetNewNoteText(text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(s.ctl.SaveNewNote(ctx), "created"), nil
}

func (s *Server) editNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ensureLoaded(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.ctl.HandleEditChange(id, text); errors.Is(err, notepad.ErrNotEditing) {
		if err := s.ctl.ToggleEdit(id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.ctl.HandleEditChange(id, text); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = s.ctl.SaveEdit(ctx, id)
	if errors.Is(err, notepad.ErrEmptyNote) {
		_ = s.ctl.CancelEdit(id)
	}
	return s.result(err, "updated"), nil
}

func (s *Server) toggleComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ensureLoaded(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(s.ctl.ToggleComplete(ctx, id), "done"), nil
}

func (s *Server) toggleReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ensureLoaded(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(s.ctl.ToggleReminder(ctx, id), "done"), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.ctl.Snapshot()
	pending := snap.ShowDeleteConfirmation && snap.PendingDelete != nil && snap.PendingDelete.ID == id

	switch {
	case req.GetBool("cancel", false):
		if !pending {
			return mcp.NewToolResultError(fmt.Sprintf("no pending deletion for %s", id)), nil
		}
		s.ctl.CancelDelete()
		return mcp.NewToolResultText("deletion cancelled"), nil

	case req.GetBool("confirm", false):
		if !pending {
			return mcp.NewToolResultError(fmt.Sprintf("no pending deletion for %s; call delete_note without confirm first", id)), nil
		}
		return s.result(s.ctl.ConfirmDelete(ctx), "deleted"), nil
	}

	if err := s.ensureLoaded(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ctl.RequestDelete(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, _ := s.ctl.Snapshot().Note(id)
	return mcp.NewToolResultText(fmt.Sprintf("Delete %q? Call delete_note again with confirm=true to delete or cancel=true to keep it.", v.Text)), nil
}

// ensureLoaded loads the view when id is not in it yet, so tools work
// without a prior list_notes call.
func (s *Server) ensureLoaded(ctx context.Context, id string) error {
	if _, ok := s.ctl.Snapshot().Note(id); ok {
		return nil
	}
	if err := s.ctl.Load(ctx); err != nil {
		s.takeToasts()
		return err
	}
	if _, ok := s.ctl.Snapshot().Note(id); !ok {
		return fmt.Errorf("%w: %s", notepad.ErrUnknownNote, id)
	}
	return nil
}

// viewState is the JSON body of the view resource.
type viewState struct {
	Variant       notepad.Variant      `json:"variant"`
	Capabilities  notepad.Capabilities `json:"capabilities"`
	Notes         []noteSummary        `json:"notes"`
	PendingDelete string               `json:"pending_delete,omitempty"`
}

func (s *Server) readSnapshotResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap := s.ctl.Snapshot()
	state := viewState{
		Variant:      s.ctl.Variant(),
		Capabilities: snap.Capabilities,
		Notes:        summarize(snap.Notes),
	}
	if snap.PendingDelete != nil {
		state.PendingDelete = snap.PendingDelete.ID
	}
	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      snapshotURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
