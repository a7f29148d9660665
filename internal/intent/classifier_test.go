package intent

import (
	"strings"
	"testing"
)

func TestClassify_TicketPrice(t *testing.T) {
	cases := []string{
		"Giá vé Tràng An bao nhiêu?",
		"giá vé chùa Bái Đính",
		"vé vào đền Thái Vi",
		"vé tham quan khu du lịch Tam Cốc",
		"bao nhiêu tiền vé động Thiên Hà",
	}
	for _, in := range cases {
		res := Classify(in)
		if res.Intent != GetTicketPrice {
			t.Errorf("Classify(%q).Intent = %q, want %q", in, res.Intent, GetTicketPrice)
		}
	}
}

func TestClassify_EntityExtraction(t *testing.T) {
	res := Classify("Giá vé Tràng An bao nhiêu?")
	if res.Intent != GetTicketPrice {
		t.Fatalf("intent = %q", res.Intent)
	}
	// The extractor strips trigger phrases and leaves the remainder as-is;
	// trailing residue is tolerated by downstream normalization.
	if !strings.HasPrefix(res.Entity, "Tràng An") {
		t.Fatalf("entity = %q, want prefix %q", res.Entity, "Tràng An")
	}

	res = Classify("vé vào đền Thái Vi")
	if res.Entity != "đền Thái Vi" {
		t.Fatalf("entity = %q", res.Entity)
	}
}

func TestClassify_Unknown(t *testing.T) {
	cases := []string{
		"Xin chào",
		"Thời tiết hôm nay thế nào?",
		"",
		"giá vé", // trigger without a place keyword
	}
	for _, in := range cases {
		res := Classify(in)
		if res.Intent != Unknown {
			t.Errorf("Classify(%q).Intent = %q, want unknown", in, res.Intent)
		}
		if res.Entity != "" {
			t.Errorf("Classify(%q).Entity = %q, want empty", in, res.Entity)
		}
	}
}
