package prompts

import (
	"strings"
	"testing"
)

func TestLanguageNameMappingAndFallback(t *testing.T) {
	if LanguageName("es") != "Spanish" {
		t.Fatalf("unexpected name for es: %s", LanguageName("es"))
	}
	if LanguageName("tlh") != "tlh" {
		t.Fatalf("expected passthrough for unmapped code, got %s", LanguageName("tlh"))
	}
}

func TestTutorGreetingSystemMentionsGroup(t *testing.T) {
	withGroup := TutorGreetingSystem("Sofia", "cheerful", "John", "Spanish Club")
	if !strings.Contains(withGroup, "GROUP CHAT called 'Spanish Club'") {
		t.Fatalf("expected group context in prompt:\n%s", withGroup)
	}

	withoutGroup := TutorGreetingSystem("Sofia", "cheerful", "John", "")
	if strings.Contains(withoutGroup, "GROUP CHAT") {
		t.Fatal("expected no group context without a group name")
	}
	if !strings.Contains(withoutGroup, "Express enthusiasm about helping them learn") {
		t.Fatal("expected solo-chat enthusiasm line")
	}
}

func TestTutorGreetingUserOptionalGroupSuffix(t *testing.T) {
	if got := TutorGreetingUser("John", ""); got != "Generate a welcoming first message for John." {
		t.Fatalf("unexpected prompt: %q", got)
	}
	if got := TutorGreetingUser("John", "Spanish Club"); !strings.Contains(got, "'Spanish Club' group chat") {
		t.Fatalf("expected group suffix, got %q", got)
	}
}

func TestTranslationUserIncludesOptionalSource(t *testing.T) {
	withSource := TranslationUser("es", "Hello", "en")
	if !strings.Contains(withSource, "(source: en)") {
		t.Fatalf("expected source hint, got %q", withSource)
	}

	withoutSource := TranslationUser("es", "Hello", "")
	if strings.Contains(withoutSource, "(source:") {
		t.Fatalf("expected no source hint, got %q", withoutSource)
	}
}

func TestLanguageTutorSystemIsDeterministic(t *testing.T) {
	first := LanguageTutorSystem("Spanish", "English")
	second := LanguageTutorSystem("Spanish", "English")
	if first != second {
		t.Fatal("expected identical prompt text for identical inputs")
	}
	if !strings.Contains(first, "Respond mostly in Spanish") {
		t.Fatalf("expected learning language in teaching approach:\n%s", first)
	}
	if !strings.Contains(first, "include English explanations") {
		t.Fatalf("expected primary language in teaching approach:\n%s", first)
	}
}

func TestResponseSuggestionsSystemDemandsJSONShape(t *testing.T) {
	if !strings.Contains(ResponseSuggestionsSystem, `"positive_response"`) ||
		!strings.Contains(ResponseSuggestionsSystem, `"negative_response"`) {
		t.Fatal("expected suggestion prompt to pin the JSON keys")
	}
}
