package relay

import (
	"net/url"
	"regexp"

	"github.com/RishiKendai/scorerelay/internal/models"
)

// rollPattern matches institutional roll numbers such as 2023CS10.
var rollPattern = regexp.MustCompile(`^2[0-9]{3}[A-Za-z]{2}[0-9]{2}$`)

// ValidRoll reports whether roll is a well-formed roll number.
func ValidRoll(roll string) bool {
	return rollPattern.MatchString(roll)
}

// ParseSubmission validates body params and coerces the three scores.
// It returns a non-empty error code when the submission must be rejected.
func ParseSubmission(params map[string]any) (models.SubmissionRequest, models.ErrorCode) {
	roll, _ := params[models.FieldRoll].(string)
	if roll == "" || !ValidRoll(roll) {
		return models.SubmissionRequest{}, models.ErrInvalidRoll
	}

	sub := models.SubmissionRequest{
		Roll:        roll,
		SnakeScore:  coerceScore(params[models.FieldSnakeScore]),
		FlappyScore: coerceScore(params[models.FieldFlappyScore]),
		StackScore:  coerceScore(params[models.FieldStackScore]),
	}
	if sub.SnakeScore < 0 || sub.FlappyScore < 0 || sub.StackScore < 0 {
		return models.SubmissionRequest{}, models.ErrInvalidScore
	}

	return sub, ""
}

// upsertForm is the payload the sheets webhook expects for a submission.
func upsertForm(sub models.SubmissionRequest, secret string) url.Values {
	form := url.Values{}
	form.Set("action", "upsert")
	form.Set(models.FieldRoll, sub.Roll)
	form.Set(models.FieldSnakeScore, formatNumber(sub.SnakeScore))
	form.Set(models.FieldFlappyScore, formatNumber(sub.FlappyScore))
	form.Set(models.FieldStackScore, formatNumber(sub.StackScore))
	form.Set(secretParam, secret)
	return form
}

// forwardQuery copies the caller's query and appends the shared secret.
// A caller-supplied secret is replaced, never forwarded.
func forwardQuery(query url.Values, secret string) url.Values {
	out := make(url.Values, len(query)+1)
	for key, vals := range query {
		if key == secretParam {
			continue
		}
		out[key] = append([]string(nil), vals...)
	}
	out.Set(secretParam, secret)
	return out
}
