package gemini

// judgmentSchema is the wire structure the model is instructed to return.
// It mirrors domain.GradingOutcome but stays decoupled from it: the model's
// output is untrusted until mapped and validated.
type judgmentSchema struct {
	Status     string `json:"status"`
	Feedback   string `json:"feedback"`
	Correction string `json:"correction,omitempty"`
	Analysis   string `json:"analysis,omitempty"`
}

// promptData carries the fields interpolated into the grading prompt.
type promptData struct {
	Prompt    string
	Answer    string
	Reference string
}
