package application

import (
	"strconv"
	"strings"
)

// ParseAssignedOnly reads the assigned_only flag: empty or "0" is false,
// any other integer is true.
func ParseAssignedOnly(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, invalid("assigned_only", "must be an integer (0 or 1)")
	}
	return n != 0, nil
}

// ParseIDList reads a comma separated list of ids such as "1, 2,3".
// An empty value means no filter and yields nil.
func ParseIDList(param, raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, invalid(param, "must be a comma separated list of integer ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
