package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/habitgrid/internal/grid"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeMark   Type = "mark"
	TypeGoto   Type = "goto"
	TypeShow   Type = "show"
	TypeExport Type = "export"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

// MarkArgs keeps the date word as typed; Date resolves it against today.
type MarkArgs struct {
	When string
}

type GotoArgs struct {
	Year  int
	Month time.Month
}

type ShowArgs struct {
	Title string
}

type ExportArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Mark   *MarkArgs
	Goto   *GotoArgs
	Show   *ShowArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMark:
		return parseMark(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeExport:
		return parseExport(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseMark(raw string, args []string) (Command, error) {
	when := "today"
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mark takes one date"}
	}
	if len(args) == 1 {
		when = strings.ToLower(args[0])
	}
	if _, err := ResolveDate(when, time.Now()); err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMark, Raw: raw, Mark: &MarkArgs{When: when}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires YYYY-MM"}
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid month %q, want YYYY-MM", args[0])}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Year: t.Year(), Month: t.Month()}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a habit title"}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Title: title}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	path := "habitgrid-report.pdf"
	if len(args) > 0 {
		path = strings.Join(args, " ")
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Path: path}}, nil
}

// Date resolves the mark target relative to today.
func (a MarkArgs) Date(today time.Time) (time.Time, error) {
	return ResolveDate(a.When, today)
}

// ResolveDate accepts today, yesterday or a canonical YYYY-MM-DD key.
func ResolveDate(when string, today time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(when)) {
	case "", "today":
		return grid.Day(today), nil
	case "yesterday":
		return grid.AddDays(today, -1), nil
	}
	d, err := grid.ParseKey(when)
	if err != nil {
		return time.Time{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid date %q, want today, yesterday or YYYY-MM-DD", when)}
	}
	return d, nil
}
