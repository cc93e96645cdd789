package bot

import (
	"testing"

	"github.com/langsoc/coursebot/internal/domain"
)

func TestParseDecision(t *testing.T) {
	regID, stage, err := parseDecision("41|2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if regID != 41 || stage != domain.StageSecond {
		t.Fatalf("got regID=%d stage=%d", regID, stage)
	}
}

func TestParseDecisionRejectsGarbage(t *testing.T) {
	bad := []string{"", "41", "41|", "|2", "41|3", "x|1", "41|y", "1|2|3"}
	for _, payload := range bad {
		if _, _, err := parseDecision(payload); err == nil {
			t.Errorf("parseDecision(%q) accepted malformed payload", payload)
		}
	}
}

func TestParseChatID(t *testing.T) {
	id, err := parseChatID([]string{"123456"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 123456 {
		t.Fatalf("got %d", id)
	}

	bad := [][]string{nil, {}, {"x"}, {"0"}, {"1", "2"}}
	for _, args := range bad {
		if _, err := parseChatID(args); err == nil {
			t.Errorf("parseChatID(%v) accepted malformed arguments", args)
		}
	}
}
