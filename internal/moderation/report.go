package moderation

// Outcome classifies what happened to a single (identity, target) pair.
type Outcome string

const (
	// OutcomeApplied means the role change took effect.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoOp means there was nothing to change (e.g. removing a role
	// the user never held).
	OutcomeNoOp Outcome = "no-op"
	// OutcomeError means this pair failed; other pairs are unaffected.
	OutcomeError Outcome = "error"
)

// TargetResult is the outcome for one (identity, target) pair. Every
// requested pair yields exactly one result; none are silently dropped.
type TargetResult struct {
	SessionID string  `json:"session_id"`
	RoomToken string  `json:"room_token,omitempty"` // empty for global scope
	Global    bool    `json:"global,omitempty"`
	Admin     bool    `json:"admin"`
	Visible   bool    `json:"visible"`
	Outcome   Outcome `json:"outcome"`
	Err       error   `json:"-"`
	Detail    string  `json:"detail,omitempty"`
}

// Report collects per-pair results for a multi-target request. A request is
// never atomic across pairs: some may apply while others error.
type Report struct {
	Results []TargetResult `json:"results"`
}

func (r *Report) add(res TargetResult) {
	if res.Err != nil {
		res.Outcome = OutcomeError
		res.Detail = res.Err.Error()
	}
	r.Results = append(r.Results, res)
}

// Failed returns the results that errored.
func (r *Report) Failed() []TargetResult {
	var failed []TargetResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeError {
			failed = append(failed, res)
		}
	}
	return failed
}
