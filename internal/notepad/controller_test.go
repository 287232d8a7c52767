package notepad

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoadKeepsBackendOrder(t *testing.T) {
	gw := newFakeGateway(note("3", "c", false), note("1", "a", true), note("2", "b", false))
	c := newThread(gw, &toastLog{})

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := c.Snapshot()
	if got, want := ids(s.Notes), []string{"3", "1", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	v, _ := s.Note("1")
	if !v.IsCompleted || v.NoteTextClass != ClassTextCompleted {
		t.Errorf("completed note mapped wrong: %+v", v)
	}
	if s.Loading {
		t.Error("loading should be false after Load")
	}
	if got := gw.callsWithPrefix("ListNotes:acct-1:"); len(got) != 1 {
		t.Errorf("list calls = %v", got)
	}
}

func TestLoadDeduplicatesIDs(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false), note("1", "dup", false))
	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())

	s := c.Snapshot()
	if len(s.Notes) != 1 || s.Notes[0].Text != "a" {
		t.Errorf("notes = %+v", s.Notes)
	}
}

func TestLoadFailureKeepsListAndToasts(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	gw.mu.Lock()
	gw.listErr = errBackend
	gw.mu.Unlock()

	err := c.Load(context.Background())
	if !errors.Is(err, errBackend) {
		t.Fatalf("err = %v, want backend error", err)
	}
	if got := ids(c.Snapshot().Notes); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("list should be kept, got %v", got)
	}
	if last, _ := toasts.last(); last != toastLoadFailed {
		t.Errorf("toast = %+v", last)
	}
}

func TestDashboardQuery(t *testing.T) {
	gw := newFakeGateway()
	c := newDashboard(gw, &toastLog{})
	_ = c.Load(context.Background())

	if got := gw.callsWithPrefix("ListNotes::u1"); len(got) != 1 {
		t.Errorf("dashboard should list by owner, calls = %v", gw.callsWithPrefix("ListNotes"))
	}
}

func TestIsOwnerOnlyInThread(t *testing.T) {
	mine := note("1", "a", false)
	theirs := note("2", "b", false)
	theirs.OwnerID = "u2"
	gw := newFakeGateway(mine, theirs)

	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())
	s := c.Snapshot()
	if !s.Notes[0].IsOwner || s.Notes[1].IsOwner {
		t.Errorf("thread ownership wrong: %v %v", s.Notes[0].IsOwner, s.Notes[1].IsOwner)
	}

	d := newDashboard(gw, &toastLog{})
	_ = d.Load(context.Background())
	for _, v := range d.Snapshot().Notes {
		if v.IsOwner {
			t.Errorf("dashboard should not mark owners: %+v", v)
		}
	}
}

func TestToggleComplete_OptimisticThenRevert(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	var during NoteView
	gw.onSetCompletion = func(id string, _ bool) {
		during, _ = c.Snapshot().Note(id)
	}
	gw.completeErr = errBackend

	err := c.ToggleComplete(context.Background(), "1")
	if !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	if !during.IsCompleted {
		t.Error("entry should be completed while the call is in flight")
	}
	after, _ := c.Snapshot().Note("1")
	if after.IsCompleted {
		t.Error("entry should be reverted after failure")
	}
	if last, _ := toasts.last(); last != toastCompleteFailed {
		t.Errorf("toast = %+v", last)
	}
	if got := gw.callsWithPrefix("ListNotes"); len(got) != 1 {
		t.Errorf("failure must not reload, list calls = %d", len(got))
	}
}

func TestToggleComplete_SuccessToastsAndReloads(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	if err := c.ToggleComplete(context.Background(), "1"); err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	v, _ := c.Snapshot().Note("1")
	if !v.IsCompleted || !v.Completed {
		t.Errorf("note should be completed after reload: %+v", v)
	}
	if last, _ := toasts.last(); last != toastCompleted {
		t.Errorf("toast = %+v", last)
	}
	if got := gw.callsWithPrefix("ListNotes"); len(got) != 2 {
		t.Errorf("list calls = %d, want 2", len(got))
	}

	_ = c.ToggleComplete(context.Background(), "1")
	if last, _ := toasts.last(); last != toastUncompleted {
		t.Errorf("toast = %+v", last)
	}
}

func TestToggleComplete_UnknownNote(t *testing.T) {
	gw := newFakeGateway()
	c := newThread(gw, &toastLog{})
	if err := c.ToggleComplete(context.Background(), "nope"); !errors.Is(err, ErrUnknownNote) {
		t.Errorf("err = %v", err)
	}
	if got := gw.callsWithPrefix("SetCompletion"); len(got) != 0 {
		t.Errorf("unexpected calls %v", got)
	}
}

func TestToggleComplete_PendingGuard(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gw.onSetCompletion = func(string, bool) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() { done <- c.ToggleComplete(context.Background(), "1") }()
	<-entered

	if err := c.ToggleComplete(context.Background(), "1"); !errors.Is(err, ErrMutationPending) {
		t.Errorf("second toggle err = %v, want ErrMutationPending", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if got := gw.callsWithPrefix("SetCompletion"); len(got) != 1 {
		t.Errorf("SetCompletion calls = %v, want exactly one", got)
	}
}

func TestToggleReminder_XOR(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())
	before, _ := c.Snapshot().Note("1")

	if err := c.ToggleReminder(context.Background(), "1"); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	mid, _ := c.Snapshot().Note("1")
	if !mid.HasReminder || mid.NotificationIcon != IconNotifyOn {
		t.Errorf("reminder should be on: %+v", mid)
	}
	if last, _ := toasts.last(); last != toastReminderOn {
		t.Errorf("toast = %+v", last)
	}

	if err := c.ToggleReminder(context.Background(), "1"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	after, _ := c.Snapshot().Note("1")
	if after.HasReminder != before.HasReminder {
		t.Errorf("HasReminder = %v, want %v", after.HasReminder, before.HasReminder)
	}
	if last, _ := toasts.last(); last != toastReminderOff {
		t.Errorf("toast = %+v", last)
	}

	creates := gw.callsWithPrefix("CreateReminder")
	removes := gw.callsWithPrefix("RemoveReminder")
	if len(creates) != 1 || len(removes) != 1 {
		t.Fatalf("creates = %v, removes = %v", creates, removes)
	}
	var order []string
	for _, call := range gw.callsWithPrefix("") {
		if call == creates[0] || call == removes[0] {
			order = append(order, call)
		}
	}
	if !reflect.DeepEqual(order, []string{"CreateReminder:u1:1", "RemoveReminder:u1:1"}) {
		t.Errorf("order = %v", order)
	}
}

func TestToggleReminder_PrecheckFailureReverts(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())
	before, _ := c.Snapshot().Note("1")

	gw.mu.Lock()
	gw.existsErr = errBackend
	gw.mu.Unlock()

	if err := c.ToggleReminder(context.Background(), "1"); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	after, _ := c.Snapshot().Note("1")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("entry not restored:\nbefore %+v\nafter  %+v", before, after)
	}
	if last, _ := toasts.last(); last != toastReminderOnFail {
		t.Errorf("toast = %+v", last)
	}
	if got := gw.callsWithPrefix("CreateReminder"); len(got) != 0 {
		t.Errorf("create must not be called after failed pre-check: %v", got)
	}
}

func TestToggleReminder_RemoveFailureReverts(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	gw.reminders["1"] = true
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	gw.mu.Lock()
	gw.removeRemErr = errBackend
	gw.mu.Unlock()

	_ = c.ToggleReminder(context.Background(), "1")
	v, _ := c.Snapshot().Note("1")
	if !v.HasReminder || v.NotifyButtonClass != ClassNotifyButtonPressed {
		t.Errorf("reminder should be restored: %+v", v)
	}
	if last, _ := toasts.last(); last != toastReminderOffFail {
		t.Errorf("toast = %+v", last)
	}
}

func TestToggleReminder_FailureToastFollowsAttempt(t *testing.T) {
	// The reminder exists but hydration failed, so the list shows it off.
	gw := newFakeGateway(note("1", "a", false))
	gw.reminders["1"] = true
	gw.existsErr = errBackend
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	gw.mu.Lock()
	gw.existsErr = nil
	gw.removeRemErr = errBackend
	gw.mu.Unlock()

	if err := c.ToggleReminder(context.Background(), "1"); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	if got := gw.callsWithPrefix("RemoveReminder"); len(got) != 1 {
		t.Fatalf("remove calls = %v", got)
	}
	if last, _ := toasts.last(); last != toastReminderOffFail {
		t.Errorf("toast = %+v, want %+v", last, toastReminderOffFail)
	}
	if v, _ := c.Snapshot().Note("1"); v.HasReminder {
		t.Errorf("entry should be restored to its pre-toggle state: %+v", v)
	}
}

func TestHydrationFailureIsSilent(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	gw.existsErr = errBackend
	gw.lookupErr = errBackend
	toasts := &toastLog{}
	c := newDashboard(gw, toasts)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, _ := c.Snapshot().Note("1")
	if v.HasReminder || v.RelatedRecordID != "" {
		t.Errorf("defaults expected: %+v", v)
	}
	if got := toasts.all(); len(got) != 0 {
		t.Errorf("hydration must not toast: %v", got)
	}
}

func TestCompanyLinkHydration(t *testing.T) {
	a := note("1", "a", false)
	a.TargetName = " Acme "
	b := note("2", "b", false)
	b.TargetName = "acme"
	other := note("3", "c", false)
	other.TargetName = "Initech"
	gw := newFakeGateway(a, b, other)
	gw.companies["Acme"] = "rec-9"

	c := newDashboard(gw, &toastLog{}, WithRecordURL("https://crm.example/r/{id}/view"))
	_ = c.Load(context.Background())

	s := c.Snapshot()
	for _, id := range []string{"1", "2"} {
		v, _ := s.Note(id)
		if v.RelatedRecordID != "rec-9" || v.RelatedRecordLink != "https://crm.example/r/rec-9/view" {
			t.Errorf("note %s not linked: %+v", id, v)
		}
	}
	v, _ := s.Note("3")
	if v.RelatedRecordID != "" || v.RelatedRecordName != "Initech" {
		t.Errorf("unmatched note should keep its name and no link: %+v", v)
	}
	if got := gw.callsWithPrefix("LookupRecordIDsByNames"); len(got) != 1 || got[0] != "LookupRecordIDsByNames:[acme initech]" {
		t.Errorf("lookup calls = %v", got)
	}

	link, err := c.RecordLink("1")
	if err != nil || link != "https://crm.example/r/rec-9/view" {
		t.Errorf("RecordLink = %q, %v", link, err)
	}
}

func TestThreadSkipsCompanyLinks(t *testing.T) {
	a := note("1", "a", false)
	a.TargetName = "Acme"
	gw := newFakeGateway(a)
	gw.companies["Acme"] = "rec-9"

	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())
	if got := gw.callsWithPrefix("LookupRecordIDsByNames"); len(got) != 0 {
		t.Errorf("thread must not look up companies: %v", got)
	}
	if _, err := c.RecordLink("1"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("RecordLink err = %v", err)
	}
}

func TestStaleHydrationDropped(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	c := newThread(gw, &toastLog{})

	entered := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool
	gw.existsFn = func(string) (bool, error) {
		if first.CompareAndSwap(false, true) {
			close(entered)
			<-release
			return true, nil
		}
		return false, nil
	}

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()
	<-entered

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load: %v", err)
	}

	v, _ := c.Snapshot().Note("1")
	if v.HasReminder {
		t.Error("late resolution from the superseded load must be dropped")
	}
}

func TestDeleteGate_CancelLeavesStoreUntouched(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false), note("2", "b", true))
	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())
	before := c.Snapshot().Notes

	if err := c.RequestDelete("2"); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	s := c.Snapshot()
	if !s.ShowDeleteConfirmation || s.PendingDelete == nil || s.PendingDelete.ID != "2" {
		t.Fatalf("gate not open: %+v", s)
	}

	c.CancelDelete()
	s = c.Snapshot()
	if s.ShowDeleteConfirmation || s.PendingDelete != nil {
		t.Errorf("gate not closed: %+v", s)
	}
	if !reflect.DeepEqual(before, s.Notes) {
		t.Error("store changed by request/cancel")
	}
	if got := gw.callsWithPrefix("DeleteNote"); len(got) != 0 {
		t.Errorf("unexpected delete calls: %v", got)
	}
}

func TestDeleteGate_Confirm(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false), note("2", "b", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	_ = c.RequestDelete("1")
	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	s := c.Snapshot()
	if s.ShowDeleteConfirmation {
		t.Error("gate should close")
	}
	if got := ids(s.Notes); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("notes after delete = %v", got)
	}
	if last, _ := toasts.last(); last != toastDeleted {
		t.Errorf("toast = %+v", last)
	}
}

func TestDeleteGate_ConfirmFailureClosesGate(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	gw.deleteErr = errBackend
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	_ = c.Load(context.Background())

	_ = c.RequestDelete("1")
	if err := c.ConfirmDelete(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	s := c.Snapshot()
	if s.ShowDeleteConfirmation || s.PendingDelete != nil {
		t.Error("gate should close on failure too")
	}
	if len(s.Notes) != 1 {
		t.Errorf("note should remain: %v", ids(s.Notes))
	}
	if last, _ := toasts.last(); last != toastDeleteFailed {
		t.Errorf("toast = %+v", last)
	}
}

func TestDeleteGate_ConfirmWhileClosedIsNoop(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())

	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Errorf("err = %v", err)
	}
	if got := gw.callsWithPrefix("DeleteNote"); len(got) != 0 {
		t.Errorf("unexpected delete calls: %v", got)
	}
	if err := c.RequestDelete("missing"); !errors.Is(err, ErrUnknownNote) {
		t.Errorf("RequestDelete missing err = %v", err)
	}
}

func TestSaveNewNote(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	ctx := context.Background()
	_ = c.Load(ctx)

	_ = c.StartNewNote()
	if !c.Snapshot().IsAdding {
		t.Fatal("add mode expected")
	}
	_ = c.SetNewNoteText("   ")
	if err := c.SaveNewNote(ctx); !errors.Is(err, ErrEmptyNote) {
		t.Errorf("blank save err = %v", err)
	}
	if got := gw.callsWithPrefix("CreateNote"); len(got) != 0 {
		t.Errorf("blank save must not call backend: %v", got)
	}

	_ = c.SetNewNoteText("fresh")
	if err := c.SaveNewNote(ctx); err != nil {
		t.Fatalf("SaveNewNote: %v", err)
	}
	s := c.Snapshot()
	if s.IsAdding || s.NewNoteText != "" {
		t.Errorf("input should be cleared: %+v", s)
	}
	if got := ids(s.Notes); !reflect.DeepEqual(got, []string{"new-1", "1"}) {
		t.Errorf("notes = %v", got)
	}
	if got := gw.callsWithPrefix("CreateNote"); len(got) != 1 || got[0] != "CreateNote:acct-1:fresh" {
		t.Errorf("create calls = %v", got)
	}
	if last, _ := toasts.last(); last != toastCreated {
		t.Errorf("toast = %+v", last)
	}
}

func TestSaveNewNoteFailureKeepsInput(t *testing.T) {
	gw := newFakeGateway()
	gw.createErr = errBackend
	toasts := &toastLog{}
	c := newThread(gw, toasts)

	_ = c.StartNewNote()
	_ = c.SetNewNoteText("keep me")
	if err := c.SaveNewNote(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	s := c.Snapshot()
	if !s.IsAdding || s.NewNoteText != "keep me" {
		t.Errorf("input lost: %+v", s)
	}
	if last, _ := toasts.last(); last != toastCreateFailed {
		t.Errorf("toast = %+v", last)
	}

	_ = c.CancelNewNote()
	s = c.Snapshot()
	if s.IsAdding || s.NewNoteText != "" {
		t.Errorf("cancel should clear input: %+v", s)
	}
}

func TestDashboardCannotCreate(t *testing.T) {
	c := newDashboard(newFakeGateway(), &toastLog{})
	if err := c.StartNewNote(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("StartNewNote err = %v", err)
	}
	if err := c.SaveNewNote(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SaveNewNote err = %v", err)
	}
}

func TestEditFlow(t *testing.T) {
	gw := newFakeGateway(note("1", "original", false))
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	ctx := context.Background()
	_ = c.Load(ctx)

	if err := c.HandleEditChange("1", "x"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("edit outside edit mode err = %v", err)
	}

	_ = c.ToggleEdit("1")
	v, _ := c.Snapshot().Note("1")
	if !v.IsEditing || v.Draft != "original" {
		t.Fatalf("edit mode not entered: %+v", v)
	}
	_ = c.HandleEditChange("1", "changed")
	v, _ = c.Snapshot().Note("1")
	if v.Text != "original" || v.Draft != "changed" {
		t.Errorf("draft must not touch text: %+v", v)
	}

	if err := c.SaveEdit(ctx, "1"); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	v, _ = c.Snapshot().Note("1")
	if v.IsEditing || v.Text != "changed" || v.Draft != "" {
		t.Errorf("after save: %+v", v)
	}
	if last, _ := toasts.last(); last != toastUpdated {
		t.Errorf("toast = %+v", last)
	}
}

func TestSaveEditFailureStaysInEditMode(t *testing.T) {
	gw := newFakeGateway(note("1", "original", false))
	gw.updateErr = errBackend
	toasts := &toastLog{}
	c := newThread(gw, toasts)
	ctx := context.Background()
	_ = c.Load(ctx)

	_ = c.ToggleEdit("1")
	_ = c.HandleEditChange("1", "changed")
	if err := c.SaveEdit(ctx, "1"); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	v, _ := c.Snapshot().Note("1")
	if !v.IsEditing || v.Draft != "changed" || v.Text != "original" {
		t.Errorf("edit session lost: %+v", v)
	}
	if last, _ := toasts.last(); last != toastUpdateFailed {
		t.Errorf("toast = %+v", last)
	}

	_ = c.CancelEdit("1")
	v, _ = c.Snapshot().Note("1")
	if v.IsEditing || v.Draft != "" || v.Text != "original" {
		t.Errorf("cancel should discard draft: %+v", v)
	}
}

func TestSaveEditRefusesBlankDraft(t *testing.T) {
	gw := newFakeGateway(note("1", "original", false))
	c := newThread(gw, &toastLog{})
	_ = c.Load(context.Background())

	_ = c.ToggleEdit("1")
	_ = c.HandleEditChange("1", "  ")
	if err := c.SaveEdit(context.Background(), "1"); !errors.Is(err, ErrEmptyNote) {
		t.Errorf("err = %v", err)
	}
	if got := gw.callsWithPrefix("UpdateNoteText"); len(got) != 0 {
		t.Errorf("unexpected calls %v", got)
	}
}

func TestDraftSurvivesReload(t *testing.T) {
	gw := newFakeGateway(note("1", "original", false), note("2", "other", false))
	c := newThread(gw, &toastLog{})
	ctx := context.Background()
	_ = c.Load(ctx)

	_ = c.ToggleEdit("1")
	_ = c.HandleEditChange("1", "unsaved")

	gw.mu.Lock()
	gw.notes[0].Text = "changed elsewhere"
	gw.mu.Unlock()

	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	v, _ := c.Snapshot().Note("1")
	if !v.IsEditing || v.Draft != "unsaved" {
		t.Errorf("draft lost on reload: %+v", v)
	}
	if v.Text != "changed elsewhere" {
		t.Errorf("text should follow the backend: %q", v.Text)
	}
	other, _ := c.Snapshot().Note("2")
	if other.IsEditing {
		t.Error("other notes must not enter edit mode")
	}
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	gw := newFakeGateway(note("1", "a", false))
	c := newThread(gw, &toastLog{})

	var (
		mu      sync.Mutex
		loading []bool
	)
	c.OnChange(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		loading = append(loading, s.Loading)
	})
	_ = c.Load(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(loading) < 2 || !loading[0] || loading[len(loading)-1] {
		t.Errorf("loading sequence = %v", loading)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(newFakeGateway())
	if c.Variant() != VariantThread {
		t.Errorf("variant = %q", c.Variant())
	}
	if !c.Capabilities().CreateNotes {
		t.Error("thread should create notes")
	}
	if c.loc != time.Local {
		t.Error("default location should be local")
	}
	var _ Gateway = newFakeGateway()
}
