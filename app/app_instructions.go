package app

import (
	"os"
	"strings"
)

const DefaultInstructions = "Use ask_user_question whenever you need a decision, a clarification or missing " +
	"information from the user instead of guessing. Free text questions use type=\"qa\", single " +
	"choice questions use type=\"choice\". The examples://question-formats resource shows the format."

// Instructions returns the server instructions, taken from the first
// instructions file found in the working directory or the default text.
func Instructions() (string, error) {
	candidates := []string{
		".ask-instructions.md",
		".ask-instructions.txt",

		"ask-instructions.md",
		"ask-instructions.txt",
	}

	for _, name := range candidates {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(name)

		if err != nil {
			return "", err
		}

		if instructions := strings.TrimSpace(string(data)); instructions != "" {
			return instructions, nil
		}
	}

	return DefaultInstructions, nil
}
