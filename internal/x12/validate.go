package x12

import "fmt"

// Validate runs the post-hoc structural check on a produced result.
// Failures are non-fatal: the caller attaches the message as a warning
// and still writes the output.
func Validate(result *FileResult) (bool, string) {
	if result == nil {
		return false, "no result produced"
	}
	if result.Summary.Segments == 0 {
		return false, "no segments found"
	}
	if result.Summary.Claims == 0 || len(result.Claims) == 0 {
		return false, "no claims found"
	}
	for i, rec := range result.Claims {
		if rec.Transaction.Type == "" {
			return false, "missing transaction header"
		}
		if rec.Claim.ID == "" {
			return false, fmt.Sprintf("claim %d has no identifier", i+1)
		}
	}
	return true, "valid"
}
