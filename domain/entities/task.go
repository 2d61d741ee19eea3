package entities

import "time"

// VoteTask is one vote: a name submitted on a page, optionally through a proxy
type VoteTask struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Proxy *Proxy `json:"proxy,omitempty"`
}

// Attempt records how a single VoteTask went
type Attempt struct {
	Task     VoteTask
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the attempt finished without error
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}
