package models

import "encoding/json"

// Suggestion is a role proposed by the model, with an optional reason.
type Suggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

type JobLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RoleJobs is the lookup outcome for one role. A nil Err with no links
// means the search found nothing.
type RoleJobs struct {
	Role  string    `json:"role"`
	Links []JobLink `json:"links"`
	Err   error     `json:"-"`
}

// Found reports whether the lookup succeeded with at least one link.
func (r RoleJobs) Found() bool {
	return r.Err == nil && len(r.Links) > 0
}

// MarshalJSON reports Err as an "error" string.
func (r RoleJobs) MarshalJSON() ([]byte, error) {
	type plain RoleJobs
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}
