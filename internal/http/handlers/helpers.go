package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"placementcell/internal/common"
	"placementcell/internal/domain/user"
	"placementcell/internal/http/middleware"
)

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is required", nil)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewValidationError("request body too large", nil)
		}
		return common.NewValidationError("invalid json", map[string]string{"body": err.Error()})
	}
	return nil
}

// decodeOptionalJSON accepts an empty body and leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.NewValidationError("invalid json", map[string]string{"body": err.Error()})
	}
	return nil
}

// pathSegment returns the n-th path segment counted from the end, starting
// at 1.
func pathSegment(r *http.Request, n int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if n < 1 || n > len(parts) {
		return ""
	}
	return parts[len(parts)-n]
}

func idFromPath(r *http.Request, n int) (common.UUID, error) {
	parsed, err := common.ParseUUID(pathSegment(r, n))
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func intFromPath(r *http.Request, n int, field string) (int, error) {
	value, err := strconv.Atoi(pathSegment(r, n))
	if err != nil {
		return 0, common.NewValidationError("invalid "+field, map[string]string{field: "must be an integer"})
	}
	return value, nil
}

func parseIDs(values []string) ([]common.UUID, error) {
	ids := make([]common.UUID, 0, len(values))
	for _, value := range values {
		parsed, err := common.ParseUUID(value)
		if err != nil {
			return nil, common.NewValidationError("invalid ids", map[string]string{"ids": "invalid uuid " + value})
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}

func identityFrom(r *http.Request) (user.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return user.Identity{}, errUnauthorized()
	}
	return identity, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized", nil)
}
