package llmtext

import "testing"

func TestExtractFieldsFromFencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n{\"positive_response\": \"Sure, let's go!\", \"negative_response\": \"Maybe later\"}\n```\nLet me know if you need more."

	fields, err := ExtractFields(raw, []string{"positive_response", "negative_response"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields["positive_response"] != "Sure, let's go!" {
		t.Fatalf("unexpected positive: %q", fields["positive_response"])
	}
	if fields["negative_response"] != "Maybe later" {
		t.Fatalf("unexpected negative: %q", fields["negative_response"])
	}
}

func TestExtractFieldsFromBareJSON(t *testing.T) {
	raw := `{"translated_text": "Hola", "detected_language": "en"}`

	fields, err := ExtractFields(raw, []string{"translated_text", "detected_language"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields["translated_text"] != "Hola" || fields["detected_language"] != "en" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestExtractFieldsFromGenericFence(t *testing.T) {
	raw := "```\n{\"translated_text\": \"Bonjour\", \"detected_language\": \"en\"}\n```"

	fields, err := ExtractFields(raw, []string{"translated_text", "detected_language"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields["translated_text"] != "Bonjour" {
		t.Fatalf("unexpected translation: %q", fields["translated_text"])
	}
}

func TestExtractFieldsHeuristicLineFallback(t *testing.T) {
	raw := "Here are two options:\nPositive: \"Sure, let's go!\"\nNegative: \"Maybe later\"\n"

	fields, err := ExtractFields(raw, []string{"positive_response", "negative_response"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields["positive_response"] != "Sure, let's go!" {
		t.Fatalf("expected quotes stripped, got %q", fields["positive_response"])
	}
	if fields["negative_response"] != "Maybe later" {
		t.Fatalf("unexpected negative: %q", fields["negative_response"])
	}
}

func TestExtractFieldsHeuristicKeepsTextAfterFirstColon(t *testing.T) {
	raw := "positive option: meet at 5:30 works\nnegative option: can't today"

	fields, err := ExtractFields(raw, []string{"positive_response", "negative_response"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields["positive_response"] != "meet at 5:30 works" {
		t.Fatalf("expected remainder after first colon, got %q", fields["positive_response"])
	}
}

func TestExtractFieldsFailsWhenFieldAbsent(t *testing.T) {
	raw := "I'd be happy to help, but could you share more context first?"

	if _, err := ExtractFields(raw, []string{"positive_response", "negative_response"}); err != ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestExtractFieldsFailsWhenJSONLacksKeysAndNoLinesMatch(t *testing.T) {
	raw := `{"summary": "two options follow"}`

	if _, err := ExtractFields(raw, []string{"positive_response", "negative_response"}); err != ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestStripFencesNoopWithoutFences(t *testing.T) {
	raw := "  {\"a\": 1}  "
	if got := StripFences(raw); got != `{"a": 1}` {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}

func TestStripFencesUsesFirstBlockOnly(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```\nand also\n```json\n{\"b\": 2}\n```"
	if got := StripFences(raw); got != `{"a": 1}` {
		t.Fatalf("expected first fenced block, got %q", got)
	}
}
