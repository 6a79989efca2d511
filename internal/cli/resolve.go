package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/sahilm/fuzzy"
)

var errNoPeriod = errors.New("no periods yet; name one with --period")

// resolvePeriod returns the flag value, or the newest stored period.
func resolvePeriod(ctx context.Context, app *App, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	periods, err := app.Services.Periods.List(ctx)
	if err != nil {
		return "", err
	}
	if len(periods) == 0 {
		return "", errNoPeriod
	}
	return periods[0], nil
}

// resolveRole resolves a role reference which can be:
//   - a role id or a unique id prefix
//   - a name or nickname, case-insensitive
//   - a fuzzy match on names and nicknames with a single best candidate
func resolveRole(ctx context.Context, app *App, input string) (string, *domain.Role, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil, fmt.Errorf("role is required")
	}
	entries, err := app.Services.Roles.List(ctx, "")
	if err != nil {
		return "", nil, err
	}

	// 1. Exact id
	for _, e := range entries {
		if e.ID == input {
			return e.ID, &e.Role, nil
		}
	}

	// 2. Exact name or nickname
	var named []int
	for i, e := range entries {
		if strings.EqualFold(e.Role.Name, input) || strings.EqualFold(domain.StrValue(e.Role.Nickname), input) {
			named = append(named, i)
		}
	}
	if len(named) == 1 {
		e := entries[named[0]]
		return e.ID, &e.Role, nil
	}
	if len(named) > 1 {
		return "", nil, fmt.Errorf("role %q is ambiguous (%d roles share that name)", input, len(named))
	}

	// 3. Id prefix
	var prefixed []int
	for i, e := range entries {
		if strings.HasPrefix(e.ID, input) {
			prefixed = append(prefixed, i)
		}
	}
	if len(prefixed) == 1 {
		e := entries[prefixed[0]]
		return e.ID, &e.Role, nil
	}

	// 4. Fuzzy name
	var texts []string
	var owners []int
	for i, e := range entries {
		texts = append(texts, e.Role.Name)
		owners = append(owners, i)
		if nick := domain.StrValue(e.Role.Nickname); nick != "" {
			texts = append(texts, nick)
			owners = append(owners, i)
		}
	}
	matches := fuzzy.Find(input, texts)
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("role not found: %q", input)
	}
	best := make(map[int]struct{})
	for _, m := range matches {
		if m.Score != matches[0].Score {
			break
		}
		best[owners[m.Index]] = struct{}{}
	}
	if len(best) > 1 {
		var names []string
		for i := range best {
			names = append(names, entries[i].Role.Name)
		}
		return "", nil, fmt.Errorf("role %q is ambiguous: %s", input, strings.Join(sortedStrings(names), ", "))
	}
	e := entries[owners[matches[0].Index]]
	return e.ID, &e.Role, nil
}

func parseTaskID(input string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(input, "#"))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid task id %q", input)
	}
	return id, nil
}

func parseValue(input string) (float64, error) {
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid value %q: want a non-negative number", input)
	}
	return v, nil
}
