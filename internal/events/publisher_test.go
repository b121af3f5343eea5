package events

import "testing"

func TestSubjectAndTypeForAction(t *testing.T) {
	if got := SubjectFor("trash"); got != "mailsweep.cleanup.trash" {
		t.Fatalf("subject = %q", got)
	}
	if got := TypeFor("trash"); got != TypeTrashed {
		t.Fatalf("type = %q", got)
	}
	if got := TypeFor("delete"); got != TypeDeleted {
		t.Fatalf("type = %q", got)
	}
}
