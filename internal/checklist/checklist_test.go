package checklist

import (
	"strings"
	"testing"
)

func TestUncheckedItemsSkipsCheckedAndPlaceholders(t *testing.T) {
	content := strings.Join([]string{
		"# Notes",
		"",
		"- [x] read the brief",
		"- [ ] draft *outline*",
		"- [ ] New task",
		"- [ ] ",
		"- [ ] wire `ticker`",
		"- plain bullet",
	}, "\n")

	got := UncheckedItems(content)
	if len(got) != 2 {
		t.Fatalf("expected 2 unchecked items, got %d: %#v", len(got), got)
	}
	if got[0] != "draft outline" || got[1] != "wire ticker" {
		t.Fatalf("unexpected items: %#v", got)
	}
}

func TestUncheckedItemsDegradesOnOddInput(t *testing.T) {
	cases := []string{
		"",
		"   \n",
		"no checklist here",
		"<ul data-type=\"taskList\"><li data-checked=\"false\">html</li></ul>",
		"- [ unterminated",
	}
	for _, in := range cases {
		if got := UncheckedItems(in); len(got) != 0 {
			t.Fatalf("expected no items for %q, got %#v", in, got)
		}
	}
}

func TestNestedItemsAreReportedSeparately(t *testing.T) {
	content := "- [ ] parent\n  - [ ] child\n  - [x] done child\n"
	got := UncheckedItems(content)
	if len(got) != 2 || got[0] != "parent" || got[1] != "child" {
		t.Fatalf("unexpected nested items: %#v", got)
	}
}

func TestProgress(t *testing.T) {
	done, total := Progress("- [x] a\n- [ ] b\n- [X] c\n")
	if done != 2 || total != 3 {
		t.Fatalf("unexpected progress: %d/%d", done, total)
	}
}

func TestCarryOverBlockRoundTripsThroughExtraction(t *testing.T) {
	block := CarryOverBlock([]string{"one", "two"})
	if !strings.HasPrefix(block, "**Carried over**") {
		t.Fatalf("expected label, got %q", block)
	}
	merged := Prepend(block, "- [x] existing")
	if !strings.HasSuffix(merged, "- [x] existing") {
		t.Fatalf("expected existing content kept, got %q", merged)
	}
	got := UncheckedItems(merged)
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("unexpected items after merge: %#v", got)
	}
}

func TestPrependEdgeCases(t *testing.T) {
	if CarryOverBlock(nil) != "" {
		t.Fatal("expected empty block for no items")
	}
	if Prepend("", "keep") != "keep" {
		t.Fatal("expected content unchanged for empty block")
	}
	if got := Prepend("block", "  "); got != "block\n" {
		t.Fatalf("unexpected prepend onto blank content: %q", got)
	}
}

func TestOpenItemsKeepInlineMarkup(t *testing.T) {
	content := strings.Join([]string{
		"- [ ] child [link](http://x)",
		"- [ ] run `go test`",
		"- [x] *done*",
		"- [ ] wrapped",
		"  continuation *here*",
	}, "\n")
	got := OpenItems(content)
	if len(got) != 3 {
		t.Fatalf("expected 3 open items, got %#v", got)
	}
	if got[0].Source != "child [link](http://x)" || got[0].Text != "child link" {
		t.Fatalf("unexpected link item: %+v", got[0])
	}
	if got[1].Source != "run `go test`" {
		t.Fatalf("unexpected code item: %+v", got[1])
	}
	if got[2].Source != "wrapped continuation *here*" {
		t.Fatalf("unexpected wrapped item: %+v", got[2])
	}

	block := CarryOverItems(got[:2])
	if !strings.Contains(block, "- [ ] child [link](http://x)") || !strings.Contains(block, "- [ ] run `go test`") {
		t.Fatalf("expected markup kept in carried block, got %q", block)
	}
}
