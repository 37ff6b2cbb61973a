package relay

import (
	"encoding/json"
	"fmt"
	"net/http"

	"icbridge/internal/token"
)

// upstreamErrorBody is the provider's error payload shape. Only the first
// message text is surfaced to callers.
type upstreamErrorBody struct {
	Messages []struct {
		Text string `json:"texto"`
	} `json:"mensagens"`
}

// Normalize maps an upstream response or a failure from any stage into the
// uniform Result. ExecutionTime is left at zero; the service stamps it so
// every path measures from the same request entry instant.
//
// Priority order: authentication failures, then routing failures, then the
// upstream's own verdict.
func Normalize(resp *UpstreamResponse, err error) Result {
	if err != nil {
		return normalizeError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      upstreamErrorMessage(resp),
		}
	}

	data := resp.Body
	if !json.Valid(data) {
		return Result{
			Success:    false,
			StatusCode: http.StatusInternalServerError,
			Error:      "API returned an unreadable response",
		}
	}
	return Result{
		Success:    true,
		Data:       data,
		StatusCode: http.StatusOK,
	}
}

func normalizeError(err error) Result {
	if ae, ok := token.AsAuthError(err); ok {
		return Result{
			Success:    false,
			StatusCode: http.StatusInternalServerError,
			Error:      "Authentication failed: " + ae.Error(),
		}
	}

	if re, ok := AsRouteError(err); ok {
		switch re.Kind {
		case KindInvalidOperation:
			return Result{
				Success:    false,
				StatusCode: http.StatusBadRequest,
				Error:      re.Error(),
			}
		case KindNotImplemented:
			return Result{
				Success:    false,
				StatusCode: http.StatusNotImplemented,
				Error:      re.Error(),
			}
		default:
			return Result{
				Success:    false,
				StatusCode: http.StatusInternalServerError,
				Error:      "Failed to connect to the API",
			}
		}
	}

	// Unanticipated fault: still the uniform envelope, never a crash.
	return Result{
		Success:    false,
		StatusCode: http.StatusInternalServerError,
		Error:      err.Error(),
	}
}

func upstreamErrorMessage(resp *UpstreamResponse) string {
	var body upstreamErrorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if len(body.Messages) > 0 && body.Messages[0].Text != "" {
			return body.Messages[0].Text
		}
	}
	return fmt.Sprintf("API request failed with status code: %d", resp.StatusCode)
}
