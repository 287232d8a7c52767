package notepad

import (
	"strings"
	"time"

	"github.com/starford/notepad/internal/models"
)

// Derived class and icon names.
const (
	ClassTextCompleted = "text-completed"
	ClassTextNormal    = "text-normal"
	ClassCardCompleted = "card-completed"
	ClassCardNormal    = "card-normal"

	IconNoteIsComplete = "icon-note-is-complete"
	IconNoteComplete   = "icon-note-complete"

	ClassCompleteButtonDone = "complete-button completed"
	ClassCompleteButton     = "complete-button"

	IconNotifyOn  = "icon-notify-on"
	IconNotifyOff = "icon-notify-off"

	ClassNotifyButtonPressed = "notify-button pressed"
	ClassNotifyButton        = "notify-button"
)

// DefaultRecordURL is the record link template used when none is configured.
const DefaultRecordURL = "/records/{id}"

// NoteView is the render-ready form of a note.
type NoteView struct {
	models.Note

	IsEditing bool   `json:"is_editing"`
	Draft     string `json:"draft,omitempty"`

	IsCompleted bool `json:"is_completed"`
	HasReminder bool `json:"has_reminder"`
	IsOwner     bool `json:"is_owner"`

	NoteTextClass       string `json:"note_text_class"`
	StickyNoteClass     string `json:"sticky_note_class"`
	CompleteIcon        string `json:"complete_icon"`
	CompleteButtonClass string `json:"complete_button_class"`
	NotificationIcon    string `json:"notification_icon"`
	NotifyButtonClass   string `json:"notify_button_class"`

	CreatedDisplay string `json:"created_display"`
	DueDisplay     string `json:"due_display,omitempty"`

	CompanyName       string `json:"company_name,omitempty"`
	RelatedRecordID   string `json:"related_record_id,omitempty"`
	RelatedRecordLink string `json:"related_record_link,omitempty"`
	RelatedRecordName string `json:"related_record_name,omitempty"`
}

// MapContext carries the viewer-dependent inputs of Map.
type MapContext struct {
	UserID       string
	Location     *time.Location
	Capabilities Capabilities
}

// Map builds the view of a persisted note. Reminder and link fields start
// empty and are filled in by hydration.
func Map(n models.Note, mc MapContext) NoteView {
	v := NoteView{
		Note:              n,
		CreatedDisplay:    FormatDate(n.CreatedAt, mc.Location),
		CompanyName:       n.TargetName,
		RelatedRecordName: n.TargetName,
	}
	if n.DueAt != nil {
		v.DueDisplay = FormatDate(*n.DueAt, mc.Location)
	}
	if mc.Capabilities.OwnerFlag {
		v.IsOwner = n.OwnerID != "" && n.OwnerID == mc.UserID
	}
	v = withCompletion(v, n.Completed)
	return withReminder(v, false)
}

// withCompletion sets IsCompleted and every field derived from it.
func withCompletion(v NoteView, completed bool) NoteView {
	v.IsCompleted = completed
	if completed {
		v.NoteTextClass = ClassTextCompleted
		v.StickyNoteClass = ClassCardCompleted
		v.CompleteIcon = IconNoteIsComplete
		v.CompleteButtonClass = ClassCompleteButtonDone
	} else {
		v.NoteTextClass = ClassTextNormal
		v.StickyNoteClass = ClassCardNormal
		v.CompleteIcon = IconNoteComplete
		v.CompleteButtonClass = ClassCompleteButton
	}
	return v
}

// withReminder sets HasReminder and every field derived from it.
func withReminder(v NoteView, on bool) NoteView {
	v.HasReminder = on
	if on {
		v.NotificationIcon = IconNotifyOn
		v.NotifyButtonClass = ClassNotifyButtonPressed
	} else {
		v.NotificationIcon = IconNotifyOff
		v.NotifyButtonClass = ClassNotifyButton
	}
	return v
}

// withLink attaches a resolved related record.
func withLink(v NoteView, id, urlTemplate string) NoteView {
	v.RelatedRecordID = id
	v.RelatedRecordLink = strings.ReplaceAll(urlTemplate, "{id}", id)
	v.RelatedRecordName = v.CompanyName
	return v
}

// normalizeName folds a company name to its lookup key.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
