// Package quizfile reads and writes quizzes as YAML documents for the
// command line import and export commands.
package quizfile

import (
	"errors"
	"fmt"
	"io"

	"quizforge/internal/domain"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk layout. A file may also hold a single quiz at the
// top level without the quizzes key.
type Document struct {
	Quizzes []Quiz `yaml:"quizzes"`
}

// Quiz is one quiz entry. Question ids are optional and renumbered on import.
type Quiz struct {
	Title      string            `yaml:"title"`
	Topic      string            `yaml:"topic,omitempty"`
	Difficulty string            `yaml:"difficulty,omitempty"`
	Questions  []domain.Question `yaml:"questions"`
}

var ErrEmptyDocument = errors.New("quiz file contains no quizzes")

// Decode parses r into domain quizzes. Validation is left to the importer.
func Decode(r io.Reader) ([]*domain.Quiz, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}

	var doc Document
	if hasKey(&root, "quizzes") {
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode quizzes: %w", err)
		}
	} else {
		var single Quiz
		if err := root.Decode(&single); err != nil {
			return nil, fmt.Errorf("decode quiz: %w", err)
		}
		doc.Quizzes = []Quiz{single}
	}
	if len(doc.Quizzes) == 0 {
		return nil, ErrEmptyDocument
	}

	out := make([]*domain.Quiz, 0, len(doc.Quizzes))
	for _, q := range doc.Quizzes {
		out = append(out, &domain.Quiz{
			Title:      q.Title,
			Topic:      q.Topic,
			Difficulty: domain.Difficulty(q.Difficulty),
			Questions:  domain.Renumber(q.Questions),
		})
	}
	return out, nil
}

// Encode writes quizzes as a Document with two-space indentation.
func Encode(w io.Writer, quizzes []*domain.Quiz) error {
	doc := Document{Quizzes: make([]Quiz, 0, len(quizzes))}
	for _, q := range quizzes {
		doc.Quizzes = append(doc.Quizzes, Quiz{
			Title:      q.Title,
			Topic:      q.Topic,
			Difficulty: string(q.Difficulty),
			Questions:  q.Questions,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode quizzes: %w", err)
	}
	return enc.Close()
}

func hasKey(root *yaml.Node, key string) bool {
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}
