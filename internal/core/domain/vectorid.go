package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// VectorIDSeparator divides the article ID prefix from the unique suffix in a
// composite vector-record identifier. The prefix is always a non-negative
// integer, so the separator can never occur inside it.
const VectorIDSeparator = "/"

// MakeVectorID generates a fresh composite identifier of the form
// "<articleID>/<uuid>" binding an indexed embedding to its owning article.
// Every call returns a new identifier; IDs are never reused across chunks.
func MakeVectorID(articleID int64) string {
	return fmt.Sprintf("%d%s%s", articleID, VectorIDSeparator, uuid.New().String())
}

// ParseArticleID extracts the owning article ID from a composite
// vector-record identifier. It fails if the separator is missing or the
// prefix is not a valid non-negative integer.
func ParseArticleID(vectorID string) (int64, error) {
	prefix, _, found := strings.Cut(vectorID, VectorIDSeparator)
	if !found {
		return 0, fmt.Errorf("vector id %q: missing separator", vectorID)
	}
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("vector id %q: invalid article id prefix: %w", vectorID, err)
	}
	if id < 0 {
		return 0, fmt.Errorf("vector id %q: negative article id", vectorID)
	}
	return id, nil
}
