package models

import (
	"net/http"
	"net/url"
)

// SubmissionRequest is a validated score submission for one roll number.
// Scores are already coerced and non-negative.
type SubmissionRequest struct {
	Roll        string  `json:"roll"`
	SnakeScore  float64 `json:"snakeScore"`
	FlappyScore float64 `json:"flappyScore"`
	StackScore  float64 `json:"stackScore"`
}

// Submission body fields as sent by the front end.
const (
	FieldRoll        = "roll"
	FieldSnakeScore  = "snakeScore"
	FieldFlappyScore = "flappyScore"
	FieldStackScore  = "stackScore"
)

// UpstreamResponse is what the sheets webhook answered.
type UpstreamResponse struct {
	StatusCode int
	BodyText   string
	Parsed     Body
}

// OK reports whether the upstream status is 2xx.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// FormValues flattens url.Values into body params, keeping the first value
// of each key.
func FormValues(values url.Values) map[string]any {
	params := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}
