// Package interview collects inheritance case data through a guided
// conversation. A session walks a fixed state machine in statutory rank
// order; a pluggable extractor (rule-based or LLM-backed) pulls names out
// of free-text answers.
package interview

import (
	"context"
	"fmt"
	"strings"

	"souzoku/internal/caseio"
	"souzoku/internal/era"
	"souzoku/internal/inheritance"
	domainerrors "souzoku/pkg/domain-errors"
)

// State identifies where the interview currently is.
type State string

const (
	StateInit         State = "init"
	StateDecedent     State = "decedent_info"
	StateSpouse       State = "spouse_info"
	StateChildren     State = "children_info"
	StateParents      State = "parents_info"
	StateSiblings     State = "siblings_info"
	StateSpecialCases State = "special_cases"
	StateConfirmation State = "confirmation"
	StateCompleted    State = "completed"
)

// Session is a single in-progress interview. Not safe for concurrent use;
// the manager serializes access per session.
type Session struct {
	state     State
	extractor NameExtractor

	decedentName      string
	decedentDeathDate string
	decedentBirthDate string

	spouseAsked  bool
	childAsked   bool
	parentAsked  bool
	siblingAsked bool

	spouses   []string
	children  []string
	parents   []string
	siblings  []string
	renounced []string

	history []Message
}

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewSession creates a session. A nil extractor falls back to rule-based
// name splitting.
func NewSession(extractor NameExtractor) *Session {
	if extractor == nil {
		extractor = RuleBasedExtractor{}
	}
	return &Session{state: StateInit, extractor: extractor}
}

// State returns the current interview state.
func (s *Session) State() State { return s.state }

// Completed reports whether the interview has finished.
func (s *Session) Completed() bool { return s.state == StateCompleted }

// History returns the conversation so far.
func (s *Session) History() []Message {
	return append([]Message{}, s.history...)
}

// Start begins the interview and returns the opening question.
func (s *Session) Start() string {
	s.state = StateDecedent
	msg := promptIntro + "\n\n" + promptDecedentName
	s.history = append(s.history, Message{Role: "assistant", Content: msg})
	return msg
}

// Respond consumes one user answer and returns the next question.
func (s *Session) Respond(ctx context.Context, input string) (string, error) {
	s.history = append(s.history, Message{Role: "user", Content: input})

	var (
		reply string
		err   error
	)
	switch s.state {
	case StateInit:
		// Start records its own assistant turn.
		return s.Start(), nil
	case StateDecedent:
		reply = s.processDecedent(input)
	case StateSpouse:
		reply = s.processSpouse(input)
	case StateChildren:
		reply, err = s.processGroup(ctx, input, &s.childAsked, &s.children, promptChildrenNames, StateParents, promptParentsQuestion)
	case StateParents:
		reply, err = s.processGroup(ctx, input, &s.parentAsked, &s.parents, promptParentsNames, StateSiblings, promptSiblingsQuestion)
	case StateSiblings:
		reply, err = s.processGroup(ctx, input, &s.siblingAsked, &s.siblings, promptSiblingsNames, StateSpecialCases, promptSpecialCases)
	case StateSpecialCases:
		reply, err = s.processSpecialCases(ctx, input)
	case StateConfirmation:
		reply = s.processConfirmation(input)
	default:
		reply = promptNothingToHear
	}
	if err != nil {
		return "", err
	}

	s.history = append(s.history, Message{Role: "assistant", Content: reply})
	return reply, nil
}

func (s *Session) processDecedent(input string) string {
	input = strings.TrimSpace(input)
	switch {
	case s.decedentName == "":
		s.decedentName = input
		return promptDecedentDeathDate
	case s.decedentDeathDate == "":
		if _, err := era.Parse(input); err != nil {
			return promptInvalidDate + "\n" + promptDecedentDeathDate
		}
		s.decedentDeathDate = input
		return promptDecedentBirthDate
	default:
		if !isUnknown(input) {
			if _, err := era.Parse(input); err != nil {
				return promptInvalidDate + "\n" + promptDecedentBirthDate
			}
			s.decedentBirthDate = input
		}
		s.state = StateSpouse
		return promptSpouseQuestion
	}
}

func (s *Session) processSpouse(input string) string {
	if !s.spouseAsked {
		s.spouseAsked = true
		if parseYesNo(input) {
			return promptSpouseName
		}
		s.state = StateChildren
		return promptChildrenQuestion
	}
	if name := strings.TrimSpace(input); name != "" {
		s.spouses = append(s.spouses, name)
	}
	s.state = StateChildren
	return promptChildrenQuestion
}

// processGroup handles the shared ask-then-collect shape of the children,
// parents, and siblings steps.
func (s *Session) processGroup(ctx context.Context, input string, asked *bool, members *[]string, namesPrompt string, next State, nextPrompt string) (string, error) {
	if !*asked {
		*asked = true
		if parseYesNo(input) {
			return namesPrompt, nil
		}
		s.state = next
		return nextPrompt, nil
	}
	names, err := s.extractor.ExtractNames(ctx, input)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "extract names")
	}
	*members = append(*members, names...)
	s.state = next
	return nextPrompt, nil
}

func (s *Session) processSpecialCases(ctx context.Context, input string) (string, error) {
	if looksNegative(input) {
		s.state = StateConfirmation
		return s.summary() + "\n\n" + promptConfirmation, nil
	}
	if parseYesNo(input) {
		// A bare yes carries no names; ask again.
		return promptSpecialCases, nil
	}
	names, err := s.extractor.ExtractNames(ctx, input)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "extract names")
	}
	s.renounced = append(s.renounced, names...)
	s.state = StateConfirmation
	return s.summary() + "\n\n" + promptConfirmation, nil
}

func (s *Session) processConfirmation(input string) string {
	if parseYesNo(input) {
		s.state = StateCompleted
		return promptCompleted
	}
	*s = *NewSession(s.extractor)
	s.state = StateDecedent
	return promptRestart
}

func (s *Session) summary() string {
	var b strings.Builder
	b.WriteString("収集した情報:\n")
	fmt.Fprintf(&b, "- 被相続人: %s\n", s.decedentName)
	if s.decedentDeathDate != "" {
		fmt.Fprintf(&b, "- 死亡日: %s\n", s.decedentDeathDate)
	}
	writeNames := func(label string, names []string) {
		if len(names) > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", label, strings.Join(names, "、"))
		}
	}
	writeNames("配偶者", s.spouses)
	writeNames("子", s.children)
	writeNames("直系尊属", s.parents)
	writeNames("兄弟姉妹", s.siblings)
	writeNames("相続放棄", s.renounced)
	return strings.TrimRight(b.String(), "\n")
}

// Input converts the collected answers into engine input. Valid only after
// the interview completed.
func (s *Session) Input() (inheritance.Input, error) {
	if !s.Completed() {
		return inheritance.Input{}, domainerrors.New(domainerrors.CodeConflict, "interview is not completed")
	}

	file := caseio.File{
		Decedent: caseio.PersonSpec{
			Name:      s.decedentName,
			DeathDate: s.decedentDeathDate,
			BirthDate: s.decedentBirthDate,
		},
	}
	renounced := make(map[string]struct{}, len(s.renounced))
	for _, name := range s.renounced {
		renounced[name] = struct{}{}
	}
	spec := func(name string) caseio.PersonSpec {
		p := caseio.PersonSpec{Name: name, IsAlive: true}
		if _, ok := renounced[name]; ok {
			p.Excluded = "renounced"
		}
		return p
	}
	for _, name := range s.spouses {
		file.Spouses = append(file.Spouses, spec(name))
	}
	for _, name := range s.children {
		file.Children = append(file.Children, spec(name))
	}
	for _, name := range s.parents {
		file.Parents = append(file.Parents, spec(name))
	}
	for _, name := range s.siblings {
		file.Siblings = append(file.Siblings, spec(name))
	}
	return file.ToInput()
}

func parseYesNo(s string) bool {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, yes := range []string{"はい", "yes", "y", "います", "いる", "あり", "ある"} {
		if strings.HasPrefix(normalized, yes) {
			return true
		}
	}
	return false
}

func looksNegative(s string) bool {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, no := range []string{"いいえ", "no", "n", "いません", "いない", "なし", "ない"} {
		if strings.HasPrefix(normalized, no) {
			return true
		}
	}
	return false
}

func isUnknown(s string) bool {
	switch strings.TrimSpace(s) {
	case "不明", "わからない", "分からない":
		return true
	}
	return false
}
