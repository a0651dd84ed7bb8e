package domain

import (
	"encoding/json"
	"testing"
)

func TestParseMadhab(t *testing.T) {
	cases := []struct {
		in      string
		want    Madhab
		wantErr bool
	}{
		{"", MadhabNone, false},
		{"  ", MadhabNone, false},
		{"none", MadhabNone, false},
		{"hanafi", MadhabHanafi, false},
		{"HANAFI", MadhabHanafi, false},
		{"maliki", MadhabMaliki, false},
		{"shafi", MadhabShafi, false},
		{"hanbali", MadhabHanbali, false},
		{"الحنفي", MadhabHanafi, false},
		{"المالكي", MadhabMaliki, false},
		{"الشافعي", MadhabShafi, false},
		{"الحنبلي", MadhabHanbali, false},
		{"غير محدد", MadhabNone, false},
		{"zahiri", MadhabNone, true},
	}
	for _, tc := range cases {
		got, err := ParseMadhab(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseMadhab(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseMadhab(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMadhabUnmarshalJSON_LegacyArabicNames(t *testing.T) {
	var issue SavedIssue
	blob := `{"id":"m1","title":"t","content":"c","madhab":"الحنبلي","timestamp":"2024-05-01T10:00:00Z"}`
	if err := json.Unmarshal([]byte(blob), &issue); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if issue.Madhab != MadhabHanbali {
		t.Fatalf("Madhab = %q, want hanbali", issue.Madhab)
	}
}

func TestMadhabUnmarshalJSON_Unknown(t *testing.T) {
	var m Madhab
	if err := json.Unmarshal([]byte(`"zahiri"`), &m); err == nil {
		t.Fatal("expected error for unknown madhab")
	}
}

func TestMadhabs_OrderAndCompleteness(t *testing.T) {
	all := Madhabs()
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	if all[0] != MadhabNone {
		t.Fatalf("first = %q, want none", all[0])
	}
}

func TestMessageJSON_OmitsNoneMadhabOnly(t *testing.T) {
	b, err := json.Marshal(Message{ID: "1", Role: RoleUser, Content: "q", Madhab: MadhabHanafi})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["madhab"] != "hanafi" {
		t.Fatalf("madhab = %v, want hanafi", m["madhab"])
	}
}
