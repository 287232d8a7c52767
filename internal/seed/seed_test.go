package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/testutil"
)

const sample = `
companies:
  - Acme
  - Globex
notes:
  - parent_id: acct-1
    parent_type: Account
    text: Call back on Monday
    owner_id: u1
    owner_name: Dana
    target_name: acme
    due_at: 2024-04-01T09:00:00Z
    reminders: [u1, u2]
  - parent_id: acct-1
    parent_type: Account
    text: Sent the quote
    owner_id: u1
    completed: true
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	f, err := Load(writeFile(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Companies) != 2 || len(f.Notes) != 2 || f.Notes[0].DueAt == nil {
		t.Fatalf("parsed = %+v", f)
	}

	svc := testutil.TestService(t, nil)
	ctx := context.Background()
	res, err := Apply(ctx, svc, f)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res != (Result{Companies: 2, Notes: 2, Reminders: 2}) {
		t.Errorf("result = %+v", res)
	}

	notes, err := svc.ListNotes(ctx, models.ListQuery{ParentID: "acct-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %d", len(notes))
	}
	var open, done models.Note
	for _, n := range notes {
		if n.Completed {
			done = n
		} else {
			open = n
		}
	}
	if done.Text != "Sent the quote" || open.Text != "Call back on Monday" {
		t.Errorf("notes = %+v", notes)
	}
	for _, u := range []string{"u1", "u2"} {
		if ok, _ := svc.ReminderExists(ctx, u, open.ID); !ok {
			t.Errorf("missing reminder for %s", u)
		}
	}

	ids, err := svc.LookupRecordIDsByNames(ctx, []string{"acme", "globex"})
	if err != nil || len(ids) != 2 {
		t.Errorf("companies = %v, %v", ids, err)
	}
}

func TestApplyTwiceKeepsCompanies(t *testing.T) {
	f, err := Load(writeFile(t, "companies: [Acme]\n"))
	if err != nil {
		t.Fatal(err)
	}
	svc := testutil.TestService(t, nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := Apply(ctx, svc, f); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}
	ids, _ := svc.LookupRecordIDsByNames(ctx, []string{"Acme"})
	if len(ids) != 1 {
		t.Errorf("ids = %v", ids)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"missing text":  "notes:\n  - parent_id: a\n",
		"missing scope": "notes:\n  - text: x\n",
		"blank company": "companies: [\"\"]\n",
		"bad yaml":      "notes: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
