package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionType classifies how a question is answered.
type QuestionType string

const (
	QuestionTypeText    QuestionType = "text"
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeSelect  QuestionType = "select"
)

// ParseQuestionType validates a raw type string.
func ParseQuestionType(raw string) (QuestionType, error) {
	switch t := QuestionType(strings.TrimSpace(raw)); t {
	case QuestionTypeText, QuestionTypeBoolean, QuestionTypeSelect:
		return t, nil
	default:
		return "", NewValidationError("type", "must be one of text, boolean, select")
	}
}

// Option is a selectable choice embedded in a select question. The ID is
// stable across edits so recorded answers keep pointing at the same choice.
type Option struct {
	ID    string
	Label string
	Value string
	Order int
}

// OptionInput is one submitted option row. A nil ID means create; a nil
// Order means "use the position in the submitted list".
type OptionInput struct {
	ID    *string
	Label string
	Value string
	Order *int
}

// Question belongs to a section and carries its options inline.
type Question struct {
	ID             string
	SectionID      string
	Text           string
	Type           QuestionType
	Required       bool
	HasDescription bool
	Order          int
	Options        []Option
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReconcileOptions diffs the submitted option rows against the options the
// question currently owns and returns the resulting set:
//
//   - submitted id owned by the question: updated in place, identity kept
//   - no id: a new option is created
//   - owned options absent from the submission: dropped
//   - questionType other than select: the result is always empty
//
// A submitted id that is not owned, a duplicate id or value, or a blank
// label/value rejects the whole submission with a field-level
// ValidationError; on error the returned set is nil and nothing may be
// persisted.
func ReconcileOptions(questionType QuestionType, owned []Option, submitted []OptionInput) ([]Option, error) {
	if questionType != QuestionTypeSelect {
		return nil, nil
	}

	ownedByID := make(map[string]Option, len(owned))
	for _, opt := range owned {
		ownedByID[opt.ID] = opt
	}

	verr := &ValidationError{}
	seenIDs := make(map[string]bool, len(submitted))
	seenValues := make(map[string]int, len(submitted))
	result := make([]Option, 0, len(submitted))

	for i, in := range submitted {
		label := strings.TrimSpace(in.Label)
		value := strings.TrimSpace(in.Value)
		if label == "" {
			verr.Add(fmt.Sprintf("options[%d].label", i), "label is required")
		}
		if value == "" {
			verr.Add(fmt.Sprintf("options[%d].value", i), "value is required")
		} else if prev, dup := seenValues[value]; dup {
			verr.Add(fmt.Sprintf("options[%d].value", i), fmt.Sprintf("duplicates options[%d].value", prev))
		} else {
			seenValues[value] = i
		}

		order := i
		if in.Order != nil {
			order = *in.Order
		}

		opt := Option{Label: label, Value: value, Order: order}
		switch {
		case in.ID == nil || *in.ID == "":
			opt.ID = uuid.NewString()
		case seenIDs[*in.ID]:
			verr.Add(fmt.Sprintf("options[%d].id", i), "duplicate option id in submission")
		default:
			seenIDs[*in.ID] = true
			if _, ok := ownedByID[*in.ID]; !ok {
				verr.Add(fmt.Sprintf("options[%d].id", i), "option does not belong to this question")
				continue
			}
			opt.ID = *in.ID
		}
		result = append(result, opt)
	}

	if !verr.Empty() {
		return nil, verr
	}
	return result, nil
}

// OptionByID returns the owned option with the given id, if any.
func (q *Question) OptionByID(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
