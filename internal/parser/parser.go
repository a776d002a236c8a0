// Package parser reads question-pack files: blocks separated by "---"
// lines, each with a question body, its options, and optional metadata.
//
//	Q: What is the powerhouse of the cell?
//	O: Ribosome
//	O*: Mitochondria
//	O: Nucleus
//	O: Golgi apparatus
//	D: 1
//	S: ENEM 2019
//
// "O*:" marks the correct option. "Q:" content may span multiple lines;
// every other prefix is single-line. Blocks without a body, with fewer
// than two options, or without exactly one correct option are dropped.
package parser

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pruvi/pruvi/internal/domain"
)

const (
	bodyPrefix       = "Q:"
	optionPrefix     = "O:"
	correctPrefix    = "O*:"
	difficultyPrefix = "D:"
	sourcePrefix     = "S:"
)

// ParseFile reads a question pack from the given path.
func ParseFile(path string) ([]domain.QuestionSeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads question-pack blocks from an io.Reader.
func Parse(r io.Reader) ([]domain.QuestionSeed, error) {
	scanner := bufio.NewScanner(r)
	var seeds []domain.QuestionSeed
	var current domain.QuestionSeed
	var bodyLines []string
	correctCount := 0
	readingBody := false

	finishSeed := func() {
		current.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
		valid := current.Body != "" && len(current.Options) >= 2 && correctCount == 1
		if valid {
			if current.Difficulty == 0 {
				current.Difficulty = 1
			}
			seeds = append(seeds, current)
		}
		current = domain.QuestionSeed{}
		bodyLines = nil
		correctCount = 0
		readingBody = false
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "---":
			finishSeed()
		case strings.HasPrefix(line, correctPrefix):
			readingBody = false
			current.CorrectOption = len(current.Options)
			current.Options = append(current.Options, trimPrefix(line, correctPrefix))
			correctCount++
		case strings.HasPrefix(line, optionPrefix):
			readingBody = false
			current.Options = append(current.Options, trimPrefix(line, optionPrefix))
		case strings.HasPrefix(line, bodyPrefix):
			if len(bodyLines) > 0 || len(current.Options) > 0 {
				// A new Q: always starts a new block.
				finishSeed()
			}
			readingBody = true
			bodyLines = append(bodyLines, trimPrefix(line, bodyPrefix))
		case strings.HasPrefix(line, difficultyPrefix):
			readingBody = false
			if d, err := strconv.Atoi(trimPrefix(line, difficultyPrefix)); err == nil && d >= 1 && d <= 3 {
				current.Difficulty = d
			}
		case strings.HasPrefix(line, sourcePrefix):
			readingBody = false
			current.Source = trimPrefix(line, sourcePrefix)
		case readingBody:
			bodyLines = append(bodyLines, line)
		}
	}

	finishSeed() // Finish the very last block in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return seeds, nil
}

func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	return strings.TrimPrefix(content, " ")
}
