package parser

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedTitle string
		expectedCards int
		expectedFront string
		expectedBack  string
	}{
		{
			name:          "simple card",
			input:         "F: What is the capital of France?\nB: Paris",
			expectedCards: 1,
			expectedFront: "What is the capital of France?",
			expectedBack:  "Paris",
		},
		{
			name:          "titled deck",
			input:         "# Geography\n\nF: Capital of Ireland?\nB: Dublin",
			expectedTitle: "Geography",
			expectedCards: 1,
			expectedFront: "Capital of Ireland?",
			expectedBack:  "Dublin",
		},
		{
			name: "multiline back",
			input: `
F: What are the primary colors?
B: Red
Blue
Yellow
`,
			expectedCards: 1,
			expectedFront: "What are the primary colors?",
			expectedBack:  "Red\nBlue\nYellow",
		},
		{
			name: "two cards with separator",
			input: `
F: First question
B: First answer
---
F: Second question
B: Second answer
`,
			expectedCards: 2,
		},
		{
			name: "new front starts a new card without separator",
			input: `
F: First question
B: First answer
F: Second question
B: Second answer
`,
			expectedCards: 2,
		},
		{
			name:          "no cards, just text",
			input:         "This is a file with no cards.",
			expectedCards: 0,
		},
		{
			name:          "prefixes with no space",
			input:         "F:Front\nB:Back",
			expectedCards: 1,
			expectedFront: "Front",
			expectedBack:  "Back",
		},
		{
			name:          "heading after the first card is content, not a title",
			input:         "F: What does # mean in markdown?\nB: A heading\n# Not A Title",
			expectedCards: 1,
			expectedFront: "What does # mean in markdown?",
		},
		{
			name:          "back without front is dropped",
			input:         "B: Orphaned answer",
			expectedCards: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			deck, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if deck.Title != tc.expectedTitle {
				t.Errorf("Expected title '%s', but got '%s'", tc.expectedTitle, deck.Title)
			}
			if len(deck.Cards) != tc.expectedCards {
				t.Fatalf("Expected %d cards, but got %d", tc.expectedCards, len(deck.Cards))
			}

			if tc.expectedFront != "" {
				card := deck.Cards[0]
				if card.Front != tc.expectedFront {
					t.Errorf("Expected front '%s', but got '%s'", tc.expectedFront, card.Front)
				}
				if tc.expectedBack != "" && card.Back != tc.expectedBack {
					t.Errorf("Expected back '%s', but got '%s'", tc.expectedBack, card.Back)
				}
			}
		})
	}
}
