package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MinQuestions       = 5
	MaxQuestions       = 10
	OptionsPerQuestion = 4
)

// SchemaViolation describes one way a quiz fails the schema.
type SchemaViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaViolations is the diagnostic of a rejected quiz.
type SchemaViolations []SchemaViolation

func (v SchemaViolations) Error() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, violation.Field+": "+violation.Message)
	}
	return strings.Join(parts, "; ")
}

func (v *SchemaViolations) add(field, format string, args ...any) {
	*v = append(*v, SchemaViolation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateQuizOutput checks the count, option and answer-membership rules.
// It returns nil for a conformant quiz.
func ValidateQuizOutput(quiz *QuizOutput) SchemaViolations {
	var violations SchemaViolations
	if quiz == nil {
		violations.add("quiz", "is missing")
		return violations
	}

	if n := len(quiz.Questions); n < MinQuestions || n > MaxQuestions {
		violations.add("questions", "has %d items, expected between %d and %d", n, MinQuestions, MaxQuestions)
	}

	for i, q := range quiz.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if len(q.Options) != OptionsPerQuestion {
			violations.add(field+".options", "has %d items, expected exactly %d", len(q.Options), OptionsPerQuestion)
		}
		matches := 0
		for _, option := range q.Options {
			if option == q.CorrectAnswer {
				matches++
			}
		}
		switch {
		case matches == 0:
			violations.add(field+".correct_answer", "%q is not one of the options", q.CorrectAnswer)
		case matches > 1:
			violations.add(field+".correct_answer", "%q matches %d options, expected exactly one", q.CorrectAnswer, matches)
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return violations
}

// quizReply mirrors QuizOutput with pointers so that absent fields can be told
// apart from empty ones.
type quizReply struct {
	Title         *string          `json:"title"`
	Summary       *string          `json:"summary"`
	Questions     *[]questionReply `json:"questions"`
	KeyEntities   *[]string        `json:"key_entities"`
	RelatedTopics *[]string        `json:"related_topics"`
}

type questionReply struct {
	Question      *string   `json:"question"`
	Options       *[]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
	Explanation   *string   `json:"explanation"`
}

var fencedBlock = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// CleanModelReply strips a leading <think> block and a markdown fence that
// wraps the whole reply. Backticks inside JSON strings are left alone.
func CleanModelReply(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "<think>") {
		if end := strings.Index(cleaned, "</think>"); end != -1 {
			cleaned = strings.TrimSpace(cleaned[end+len("</think>"):])
		}
	}
	if m := fencedBlock.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	return strings.TrimSpace(cleaned)
}

// ParseQuizOutput decodes a raw model reply and checks it against the schema.
// Any failure is returned as a SCHEMA_ERROR whose cause is the diagnostic.
func ParseQuizOutput(raw string) (*QuizOutput, error) {
	cleaned := CleanModelReply(raw)
	if cleaned == "" {
		return nil, NewSchemaError(errors.New("reply is empty"))
	}

	var reply quizReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, NewSchemaError(fmt.Errorf("reply is not a JSON object: %w", err))
	}

	var violations SchemaViolations
	quiz := &QuizOutput{}
	requireString(&violations, "title", reply.Title, &quiz.Title)
	requireString(&violations, "summary", reply.Summary, &quiz.Summary)
	requireStrings(&violations, "key_entities", reply.KeyEntities, &quiz.KeyEntities)
	requireStrings(&violations, "related_topics", reply.RelatedTopics, &quiz.RelatedTopics)

	if reply.Questions == nil {
		violations.add("questions", "is required")
	} else {
		quiz.Questions = make([]Question, 0, len(*reply.Questions))
		for i, q := range *reply.Questions {
			field := fmt.Sprintf("questions[%d]", i)
			var question Question
			requireString(&violations, field+".question", q.Question, &question.Question)
			requireStrings(&violations, field+".options", q.Options, &question.Options)
			requireString(&violations, field+".correct_answer", q.CorrectAnswer, &question.CorrectAnswer)
			requireString(&violations, field+".explanation", q.Explanation, &question.Explanation)
			quiz.Questions = append(quiz.Questions, question)
		}
	}

	// Membership checks on a half-decoded question only add noise.
	if len(violations) == 0 {
		violations = ValidateQuizOutput(quiz)
	}
	if len(violations) > 0 {
		return nil, NewSchemaError(violations)
	}
	return quiz, nil
}

func requireString(v *SchemaViolations, field string, src *string, dst *string) {
	if src == nil {
		v.add(field, "is required")
		return
	}
	*dst = *src
}

func requireStrings(v *SchemaViolations, field string, src *[]string, dst *[]string) {
	if src == nil {
		v.add(field, "is required")
		return
	}
	*dst = *src
}
