package line

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTextSerializesZeroFlexAndEmptyText(t *testing.T) {
	raw, err := json.Marshal(&Text{Type: TypeText, Text: "", Flex: Int(0)})
	if err != nil {
		t.Fatalf("marshal text: %v", err)
	}
	s := string(raw)
	// Both fields carry meaning at their zero values and must stay present.
	if !strings.Contains(s, `"flex":0`) {
		t.Errorf("flex:0 dropped from %s", s)
	}
	if !strings.Contains(s, `"text":""`) {
		t.Errorf("empty text dropped from %s", s)
	}
}

func TestTextOmitsUnsetFlex(t *testing.T) {
	raw, err := json.Marshal(&Text{Type: TypeText, Text: "x"})
	if err != nil {
		t.Fatalf("marshal text: %v", err)
	}
	if strings.Contains(string(raw), `"flex"`) {
		t.Errorf("unset flex serialized: %s", raw)
	}
}
