package cleaner

import "testing"

func TestParseSender(t *testing.T) {
	tests := []struct {
		in       string
		wantAddr string
		wantName string
	}{
		{`Shein <newsletter@shein.com>`, "newsletter@shein.com", "Shein"},
		{`"Quoted Name" <Someone@Example.COM>`, "someone@example.com", "Quoted Name"},
		{`<bare@example.com>`, "bare@example.com", "bare@example.com"},
		{`plain@example.com`, "plain@example.com", "plain@example.com"},
		{`Plain@EXAMPLE.com`, "plain@example.com", "plain@example.com"},
		{`Mailer Daemon`, UnknownSender, UnknownSender},
		{``, UnknownSender, UnknownSender},
	}
	for _, tc := range tests {
		addr, name := ParseSender(tc.in)
		if addr != tc.wantAddr || name != tc.wantName {
			t.Errorf("ParseSender(%q) = (%q, %q); want (%q, %q)", tc.in, addr, name, tc.wantAddr, tc.wantName)
		}
	}
}

func TestHasHint(t *testing.T) {
	e := Email{CategoryHints: []string{HintPromotions, "updates"}}
	if !e.HasHint(HintPromotions) {
		t.Error("expected promotions hint")
	}
	if e.HasHint(HintSocial) {
		t.Error("unexpected social hint")
	}
	if (Email{}).HasHint(HintPromotions) {
		t.Error("empty hint set should match nothing")
	}
}
