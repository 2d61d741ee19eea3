package entities

import (
	"fmt"
	"strings"
)

// StrategyKind names a method for finding an element on a page
type StrategyKind string

const (
	ByID    StrategyKind = "id"
	ByName  StrategyKind = "name"
	ByCSS   StrategyKind = "css"
	ByXPath StrategyKind = "xpath"
	ByText  StrategyKind = "text"
)

// Condition is the state a located element must be in to count as a match
type Condition int

const (
	// Present - element is attached to the DOM
	Present Condition = iota
	// Clickable - element is present, visible and enabled
	Clickable
)

func (c Condition) String() string {
	switch c {
	case Present:
		return "present"
	case Clickable:
		return "clickable"
	}
	return fmt.Sprintf("condition(%d)", int(c))
}

// SelectorCandidate is one (strategy, value) pair tried by the locator
type SelectorCandidate struct {
	By    StrategyKind `mapstructure:"by" json:"by"`
	Value string       `mapstructure:"value" json:"value"`
}

// String renders the candidate the way log lines show it, e.g. ID='username'
func (c SelectorCandidate) String() string {
	return fmt.Sprintf("%s='%s'", strings.ToUpper(string(c.By)), c.Value)
}

// Validate - checks the strategy kind is known and the value is set
func (c SelectorCandidate) Validate() error {
	switch c.By {
	case ByID, ByName, ByCSS, ByXPath, ByText:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidSelector, c.By)
	}
	if strings.TrimSpace(c.Value) == "" {
		return fmt.Errorf("%w: empty value for strategy %q", ErrInvalidSelector, c.By)
	}
	return nil
}

// SelectorList is an ordered list of candidates; earlier entries win
type SelectorList []SelectorCandidate

// Validate - validates every candidate in the list
func (l SelectorList) Validate() error {
	for i, c := range l {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candidate %d: %w", i, err)
		}
	}
	return nil
}

// Target is a logical element on the page together with the ways to find it
type Target struct {
	Label      string
	Candidates SelectorList
	Condition  Condition
}
