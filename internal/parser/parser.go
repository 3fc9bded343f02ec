// Package parser reads markdown deck files into cards for the importer.
//
// A deck file is an optional `# Title` heading followed by front/back
// blocks:
//
//	# Spanish Basics
//
//	F: hola
//	B: hello
//	---
//	F: adiós
//	B: goodbye
//
// Blocks may span multiple lines; `---` separates cards.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	titlePrefix = "# "
	frontPrefix = "F:"
	backPrefix  = "B:"
)

// Card is one parsed front/back pair.
type Card struct {
	Front string
	Back  string
}

// Deck is the parsed content of one deck file.
type Deck struct {
	Title string
	Cards []Card
}

type state int

const (
	seeking state = iota
	readingFront
	readingBack
)

// ParseFile reads a deck file from the given path.
func ParseFile(path string) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a deck from an io.Reader. A card is kept only when it has a
// front; a title line is only honored before the first card.
func Parse(r io.Reader) (*Deck, error) {
	scanner := bufio.NewScanner(r)
	deck := &Deck{}
	var current Card
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch currentState {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" {
			deck.Cards = append(deck.Cards, current)
		}
		current = Card{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "---" {
			finishCard()
			continue
		}

		if strings.HasPrefix(line, titlePrefix) && deck.Title == "" && len(deck.Cards) == 0 && currentState == seeking {
			deck.Title = strings.TrimSpace(line[len(titlePrefix):])
			continue
		}

		isFront := strings.HasPrefix(line, frontPrefix)
		isBack := strings.HasPrefix(line, backPrefix)

		if isFront || isBack {
			flushBlock()

			if isFront {
				// A new front always starts a new card.
				if currentState != seeking {
					finishCard()
				}
				currentState = readingFront
				block = append(block, strings.TrimPrefix(line[len(frontPrefix):], " "))
			} else {
				currentState = readingBack
				block = append(block, strings.TrimPrefix(line[len(backPrefix):], " "))
			}
		} else if currentState != seeking {
			block = append(block, line)
		}
	}

	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return deck, nil
}
