package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// PageCursor is the position encoded in a register's nextToken.
type PageCursor struct {
	Kind      string
	CompanyID string
	Page      int
	PageSize  int
}

// EncodeToken creates a base64 encoded token for the given register position.
func EncodeToken(c PageCursor) string {
	return EncodeMultiFieldToken(c.Kind, c.CompanyID, strconv.Itoa(c.Page), strconv.Itoa(c.PageSize))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (PageCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return PageCursor{}, err
	}
	if len(parts) < 4 {
		return PageCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	n := len(parts)

	page, err := strconv.Atoi(parts[n-2])
	if err != nil {
		return PageCursor{}, fmt.Errorf("invalid pagination token format (page parse): %w", err)
	}
	size, err := strconv.Atoi(parts[n-1])
	if err != nil {
		return PageCursor{}, fmt.Errorf("invalid pagination token format (page size parse): %w", err)
	}

	// live company ids are Tally company names and may themselves contain "|"
	companyID := strings.Join(parts[1:n-2], "|")
	return PageCursor{Kind: parts[0], CompanyID: companyID, Page: page, PageSize: size}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields.
// Fields must not contain "|".
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
