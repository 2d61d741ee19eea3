package interfaces

import (
	"context"

	"vote_automation/domain/entities"
)

// Element is a handle to an element found on the live page.
// It is owned by the session that produced it and invalid after Close.
type Element interface {
	// Fill clears the element and types text into it
	Fill(ctx context.Context, text string) error

	// Click clicks the element
	Click(ctx context.Context) error
}

// Page is the read side of a browser session used by the locator
type Page interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// Probe checks once, without waiting, for an element matching the
	// candidate in the given condition. It returns entities.ErrNoMatch
	// when nothing matches.
	Probe(ctx context.Context, candidate entities.SelectorCandidate, cond entities.Condition) (Element, error)
}

// Session is a live browser that must be closed
type Session interface {
	Page

	// Close closes the browser; calling it more than once is a no-op
	Close() error
}

// Launcher starts browser sessions
type Launcher interface {
	Launch(ctx context.Context, opts entities.LaunchOptions) (Session, error)
}
