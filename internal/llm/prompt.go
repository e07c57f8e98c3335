package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Built-in templates used when no prompt files are present.
const (
	defaultSystem = "You are a helpful assistant that answers questions using only the provided context. " +
		"If the context does not contain the answer, say you don't know. Cite the sources you used."

	defaultQuestion = "Context:\n{context}\n\nQuestion: {question}\n\nAnswer:"
)

// Prompt is the template pair filled for every question: a fixed system
// instruction plus a user turn with {context} and {question} slots.
// Loaded once at startup; not editable at runtime.
type Prompt struct {
	System   string
	Question string
}

// LoadPrompt reads the template pair from the given paths. A missing file
// falls back to the built-in default for that slot; any other read error
// is returned.
func LoadPrompt(systemPath, questionPath string) (Prompt, error) {
	system, err := readTemplate(systemPath, defaultSystem)
	if err != nil {
		return Prompt{}, err
	}
	question, err := readTemplate(questionPath, defaultQuestion)
	if err != nil {
		return Prompt{}, err
	}
	if !strings.Contains(question, "{question}") {
		return Prompt{}, fmt.Errorf("prompt template %s has no {question} slot", questionPath)
	}
	return Prompt{System: system, Question: question}, nil
}

// Fill substitutes the context block and question into the user turn.
func (p Prompt) Fill(contextBlock, question string) string {
	r := strings.NewReplacer("{context}", contextBlock, "{question}", question)
	return r.Replace(p.Question)
}

func readTemplate(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, nil
		}
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fallback, nil
	}
	return text, nil
}
