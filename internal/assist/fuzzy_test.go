package assist

import "testing"

func TestFuzzyMatch(t *testing.T) {
	if !FuzzyMatch("show me your projects", []string{"project"}) {
		t.Error("pattern inside a longer word should match")
	}
	if !FuzzyMatch("i like blogging a lot", []string{"blog"}) {
		t.Error("blogging should match blog")
	}
	if !FuzzyMatch("thanks!", []string{"thank"}) {
		t.Error("thanks should match thank")
	}
	if FuzzyMatch("hello world", []string{"project"}) {
		t.Error("unrelated text must not match")
	}
}

func TestFuzzyMatch_ShortTextWordsIgnored(t *testing.T) {
	// "go" is only two characters and is skipped as a text word, so a bare
	// "go" cannot trigger anything on its own.
	if FuzzyMatch("go", []string{"golang"}) {
		t.Error("two-character text words must be ignored")
	}
	// The reverse direction is the documented looseness: a longer text word
	// containing a short pattern matches.
	if !FuzzyMatch("that sounds good", []string{"go"}) {
		t.Error("good should match short pattern go")
	}
}

func TestFuzzyMatch_MultiWordPattern(t *testing.T) {
	if !FuzzyMatch("your reading list looks great", []string{"reading list"}) {
		t.Error("each word of a multi-word pattern is tried independently")
	}
}
