// File: internal/engine/date.go
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/config"
	"github.com/mwielandt/autoform-cli/internal/normalize"
)

// calendarRootSelectors locate an opened calendar widget near the input.
var calendarRootSelectors = []string{
	".datepicker", ".date-picker", ".flatpickr-calendar", ".air-datepicker",
	".react-datepicker", ".ui-datepicker", "[class*='calendar']",
}

var yearControlSelectors = []string{
	"select[class*='year']", ".datepicker-year select", "select[aria-label*='year' i]",
}

var monthControlSelectors = []string{
	"select[class*='month']", ".datepicker-month select", "select[aria-label*='month' i]",
}

var dayCellSelectors = []string{
	"td:not(.disabled):not(.other-month)", "button[class*='day']", "[class*='day']:not([class*='disabled'])", "a",
}

// DateExecutor fills date fields. Native date inputs take the ISO string
// directly. Custom widgets get a calendar walk: open, pick year, pick
// month, click the day cell. When the widget resists, literal date
// strings are typed in the formats forms commonly accept.
type DateExecutor struct {
	page   browser.Page
	cfg    config.EngineConfig
	logger *zap.Logger
}

func (e *DateExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	date, ok := normalize.ParseDate(value)
	if !ok {
		return schemas.FillOutcome{}, fmt.Errorf("%w: unparsable date %q", schemas.ErrInvalidInput, value)
	}
	t := f.Candidate.Target

	verify := func(ctx context.Context) (bool, error) {
		got, err := e.page.Value(ctx, t)
		if err != nil {
			return false, err
		}
		return normalize.MatchesDate(got, date), nil
	}

	var attempts []Attempt
	if strings.EqualFold(f.Candidate.Attr("type"), "date") || strings.EqualFold(f.Candidate.Attr("type"), "datetime-local") {
		attempts = append(attempts, Attempt{
			Name: "native-iso",
			Run: func(ctx context.Context) error {
				if err := e.page.SetValue(ctx, t, date.ISO()); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "input", "change")
			},
			Verify: verify,
		})
	} else {
		attempts = append(attempts, Attempt{
			Name: "calendar-widget",
			Run: func(ctx context.Context) error {
				return e.driveCalendar(ctx, t, date)
			},
			Verify: verify,
		})
	}
	for _, literal := range normalize.DateFormats(date) {
		literal := literal
		attempts = append(attempts, Attempt{
			Name: "type-literal",
			Run: func(ctx context.Context) error {
				if err := e.page.Clear(ctx, t); err != nil {
					return err
				}
				if err := e.page.SetValue(ctx, t, literal); err != nil {
					return err
				}
				if err := e.page.DispatchEvents(ctx, t, "input", "change"); err != nil {
					return err
				}
				// Tab out so widgets that parse on blur commit the text.
				return e.page.PressKey(ctx, t, "\t")
			},
			Verify: verify,
		})
	}

	outcome := RunLadder(ctx, e.logger, attempts)
	if outcome.Success {
		outcome.Verified = date.ISO()
	}
	return outcome, nil
}

// driveCalendar opens the widget attached to the input and walks it to
// the target date. Widgets disagree on whether their month selects are
// 0- or 1-based; both offsets are attempted and the month read back.
func (e *DateExecutor) driveCalendar(ctx context.Context, t schemas.Target, date normalize.Date) error {
	if err := e.page.Click(ctx, t); err != nil {
		return err
	}

	root, ok := e.findCalendarRoot(ctx, t.FramePath)
	if !ok {
		return schemas.ErrNotFound
	}

	if yearSel, ok := e.findControl(ctx, t.FramePath, root, yearControlSelectors); ok {
		if _, err := e.page.SelectValue(ctx, yearSel, strconv.Itoa(date.Year)); err != nil {
			_, _ = e.page.SelectLabel(ctx, yearSel, strconv.Itoa(date.Year))
		}
	}

	if monthSel, ok := e.findControl(ctx, t.FramePath, root, monthControlSelectors); ok {
		if !e.selectMonth(ctx, monthSel, date.Month) {
			return fmt.Errorf("month selection did not land: %w", schemas.ErrVerifyMismatch)
		}
	}

	day := strconv.Itoa(date.Day)
	for _, sel := range dayCellSelectors {
		scoped := root.Selector + " " + sel
		if cell, ok := e.page.QueryWithText(ctx, t.FramePath, scoped, day); ok {
			return e.page.Click(ctx, cell)
		}
	}
	return schemas.ErrNotFound
}

// selectMonth tries the 0-based index first, verifies by reading the
// select back, then retries 1-based. Month-name labels are the final
// fallback.
func (e *DateExecutor) selectMonth(ctx context.Context, sel schemas.Target, month int) bool {
	for _, offset := range []int{-1, 0} {
		got, err := e.page.SelectIndex(ctx, sel, month+offset)
		if err != nil {
			continue
		}
		if monthMatches(got, month) {
			return true
		}
	}
	for _, name := range normalize.MonthNames(month) {
		if _, err := e.page.SelectLabel(ctx, sel, name); err == nil {
			return true
		}
	}
	return false
}

// monthMatches accepts a read-back month value in either indexing
// convention or as a locale name.
func monthMatches(got string, month int) bool {
	got = strings.TrimSpace(got)
	if n, err := strconv.Atoi(got); err == nil {
		return n == month || n == month-1
	}
	for _, name := range normalize.MonthNames(month) {
		if strings.EqualFold(got, name) {
			return true
		}
	}
	return false
}

func (e *DateExecutor) findCalendarRoot(ctx context.Context, framePath []int) (schemas.Target, bool) {
	for _, sel := range calendarRootSelectors {
		if root, ok := e.page.Query(ctx, framePath, sel); ok && e.page.IsVisible(ctx, root) {
			return root, true
		}
	}
	return schemas.Target{}, false
}

func (e *DateExecutor) findControl(ctx context.Context, framePath []int, root schemas.Target, selectors []string) (schemas.Target, bool) {
	for _, sel := range selectors {
		if t, ok := e.page.Query(ctx, framePath, root.Selector+" "+sel); ok {
			return t, true
		}
	}
	return schemas.Target{}, false
}
