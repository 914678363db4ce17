package accounts

import (
	"testing"
)

func TestParse_MixedInput(t *testing.T) {
	input := "a@b.com:pw\n\nnoatsign:pw\n   \nc@d.com: secret \r\nmissing@pw.com:\n:nopass\ne@f.com:pa:ss"

	got := Parse(input)
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3: %+v", len(got), got)
	}

	want := []struct{ email, password, device string }{
		{"a@b.com", "pw", "device_1"},
		{"c@d.com", "secret", "device_2"},
		{"e@f.com", "pa:ss", "device_3"},
	}
	for i, w := range want {
		if got[i].Email != w.email || got[i].Password != w.password || got[i].DeviceID != w.device {
			t.Errorf("account %d=%+v, want %+v", i, got[i], w)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	got := Parse("")
	if got == nil || len(got) != 0 {
		t.Fatalf("Parse(\"\")=%v, want empty non-nil slice", got)
	}
}

func TestParse_Sample(t *testing.T) {
	got := Parse(Sample)
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if got[2].DeviceID != "device_3" {
		t.Fatalf("last device=%s", got[2].DeviceID)
	}
}
